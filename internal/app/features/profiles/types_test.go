package profiles

import (
	"strings"
	"testing"
)

func strp(s string) *string { return &s }

func validCreate() createInput {
	return createInput{
		Name:            "Kerri",
		Age:             27,
		PrimaryPosition: "Setter",
		Location:        "Santa Monica",
		PreferredCourts: []string{"beach"},
	}
}

func TestCreateInput_Validate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*createInput)
		field string
	}{
		{"valid", func(*createInput) {}, ""},
		{"missing name", func(in *createInput) { in.Name = "" }, "name"},
		{"one-letter name", func(in *createInput) { in.Name = "A" }, "name"},
		{"two-letter name", func(in *createInput) { in.Name = "Al" }, ""},
		{"long name", func(in *createInput) { in.Name = strings.Repeat("n", 51) }, "name"},
		{"bio at limit", func(in *createInput) { in.Bio = strings.Repeat("b", 200) }, ""},
		{"long bio", func(in *createInput) { in.Bio = strings.Repeat("b", 201) }, "bio"},
		{"one-letter location", func(in *createInput) { in.Location = "X" }, "location"},
		{"too young", func(in *createInput) { in.Age = 12 }, "age"},
		{"too old", func(in *createInput) { in.Age = 101 }, "age"},
		{"unknown position", func(in *createInput) { in.PrimaryPosition = "Goalkeeper" }, "primary_position"},
		{"unknown secondary", func(in *createInput) { in.SecondaryPosition = strp("Striker") }, "secondary_position"},
		{"unknown level", func(in *createInput) { in.ExperienceLevel = "pro" }, "experience_level"},
		{"missing location", func(in *createInput) { in.Location = " " }, "location"},
		{"no courts", func(in *createInput) { in.PreferredCourts = nil }, "preferred_courts"},
		{"bad court", func(in *createInput) { in.PreferredCourts = []string{"clay"} }, "preferred_courts[0]"},
		{"bad image", func(in *createInput) { in.ProfileImage = strp("ftp://x/y.png") }, "profile_image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreate()
			tt.edit(&in)
			res := in.validate()
			if tt.field == "" {
				if res.HasErrors() {
					t.Fatalf("expected valid, got %v", res.All())
				}
				return
			}
			for _, e := range res.Errors {
				if e.Field == tt.field {
					return
				}
			}
			t.Errorf("expected error on %s, got %+v", tt.field, res.Errors)
		})
	}
}

func TestUpdateInput_Partial(t *testing.T) {
	in := updateInput{Bio: strp("Beach only now.")}
	if res := in.validate(); res.HasErrors() {
		t.Fatalf("partial update should be valid, got %v", res.All())
	}
	if in.toUpdate().Empty() {
		t.Error("update with bio should not be empty")
	}
	if !(updateInput{}).toUpdate().Empty() {
		t.Error("update with no fields should be empty")
	}
}

func TestUpdateInput_Lengths(t *testing.T) {
	tests := []struct {
		name  string
		in    updateInput
		field string
	}{
		{"one-letter name", updateInput{Name: strp("A")}, "name"},
		{"one-letter location", updateInput{Location: strp("X")}, "location"},
		{"long bio", updateInput{Bio: strp(strings.Repeat("b", 201))}, "bio"},
		{"short but valid", updateInput{Name: strp("Al"), Location: strp("LA")}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.in.validate()
			if tt.field == "" {
				if res.HasErrors() {
					t.Fatalf("expected valid, got %v", res.All())
				}
				return
			}
			for _, e := range res.Errors {
				if e.Field == tt.field {
					return
				}
			}
			t.Errorf("expected error on %s, got %+v", tt.field, res.Errors)
		})
	}
}

func TestUpdateInput_ClearingRequiredFields(t *testing.T) {
	in := updateInput{
		Name:            strp(""),
		Location:        strp(""),
		PreferredCourts: []string{},
	}
	in.sanitize()
	res := in.validate()
	want := map[string]bool{"name": false, "location": false, "preferred_courts": false}
	for _, e := range res.Errors {
		if _, ok := want[e.Field]; ok {
			want[e.Field] = true
		}
	}
	for f, seen := range want {
		if !seen {
			t.Errorf("expected error on %s", f)
		}
	}
}

func TestCreateInput_Sanitize(t *testing.T) {
	in := validCreate()
	in.Bio = "<script>alert(1)</script>Libero for life"
	in.ProfileImage = strp("  https://example.com/me.png ")
	in.sanitize()
	if in.Bio != "Libero for life" {
		t.Errorf("bio not sanitized: %q", in.Bio)
	}
	if *in.ProfileImage != "https://example.com/me.png" {
		t.Errorf("image not trimmed: %q", *in.ProfileImage)
	}
}
