package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"testing"
)

func TestCompatibleVersionsAccepts(t *testing.T) {
	tests := []struct {
		name string
		spec CompatibleVersions
		v    string
		want bool
	}{
		{"all accepts anything", AllVersions(), "15.3", true},
		{"zero value is all", CompatibleVersions{}, "1.0", true},
		{"listed", VersionList("11.0", "11.1"), "11.1", true},
		{"not listed", VersionList("11.0", "11.1"), "12.0", false},
		{"empty list accepts none", VersionList(), "11.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.Accepts(tt.v); got != tt.want {
				t.Errorf("%v.Accepts(%q) = %v, want %v", tt.spec, tt.v, got, tt.want)
			}
		})
	}
}

func TestCompatibleVersionsIntersect(t *testing.T) {
	tests := []struct {
		name    string
		a, b    CompatibleVersions
		wantAll bool
		want    []string
	}{
		{"all and all", AllVersions(), AllVersions(), true, nil},
		{"all and list", AllVersions(), VersionList("12.0", "11.0"), false, []string{"12.0", "11.0"}},
		{"list and all", VersionList("11.0"), AllVersions(), false, []string{"11.0"}},
		{"keeps receiver order", VersionList("11.1", "11.0", "12.0"), VersionList("11.0", "11.1"), false, []string{"11.1", "11.0"}},
		{"disjoint", VersionList("11.0"), VersionList("12.0"), false, []string{}},
		{"dedups", VersionList("11.0", "11.0"), VersionList("11.0"), false, []string{"11.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersect(tt.b)
			if got.IsAll() != tt.wantAll {
				t.Fatalf("IsAll() = %v, want %v", got.IsAll(), tt.wantAll)
			}
			if !tt.wantAll && !slices.Equal(got.Versions(), tt.want) {
				t.Errorf("Versions() = %v, want %v", got.Versions(), tt.want)
			}
		})
	}
	if !VersionList("11.0").Intersect(VersionList("12.0")).IsEmpty() {
		t.Error("disjoint intersection should be empty")
	}
}

func TestVersionListPreservesOrderAndDuplicates(t *testing.T) {
	in := []string{"11.1", "11.0", "11.1"}
	v := VersionList(in...)
	in[0] = "mutated"
	if got := v.Versions(); !slices.Equal(got, []string{"11.1", "11.0", "11.1"}) {
		t.Errorf("Versions() = %v", got)
	}
}

func TestCompatibleVersionsJSON(t *testing.T) {
	for _, spec := range []CompatibleVersions{AllVersions(), VersionList("11.0", "11.1"), VersionList()} {
		data, err := json.Marshal(spec)
		if err != nil {
			t.Fatal(err)
		}
		var back CompatibleVersions
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if !back.Equal(spec) {
			t.Errorf("round trip of %v gave %v", spec, back)
		}
	}

	var bad CompatibleVersions
	if err := json.Unmarshal([]byte(`"some"`), &bad); err == nil {
		t.Error("expected error for unknown string")
	}
}

func TestCompatibleVersionsHashStable(t *testing.T) {
	a := VersionList("11.0", "11.1")
	b := VersionList("11.0", "11.1")
	if a.Hash() != b.Hash() {
		t.Error("equal specs must hash equally")
	}
	if a.Hash() == VersionList("11.1", "11.0").Hash() {
		t.Error("lists are ordered; reordering should change the hash")
	}
	if AllVersions().Hash() == VersionList().Hash() {
		t.Error("all and empty list must differ")
	}
}

func TestGenerationOptionsEqualityIgnoresOrder(t *testing.T) {
	a := GenerationOptions{
		{Kind: ProjectNameOption, Value: "App"},
		{Kind: "other", Value: "x"},
	}
	b := GenerationOptions{a[1], a[0]}

	if !a.Equal(b) {
		t.Error("Equal should ignore order")
	}
	if a.Hash() != b.Hash() {
		t.Error("Hash should ignore order")
	}
	if a[0].Kind != ProjectNameOption {
		t.Error("Equal/Hash must not reorder the receiver")
	}
	if a.Equal(GenerationOptions{a[0]}) {
		t.Error("different sets compared equal")
	}
	if !GenerationOptions(nil).Equal(GenerationOptions{}) {
		t.Error("nil and empty sets should be equal")
	}
}

func TestGenerationOptionsDuplicate(t *testing.T) {
	opts := GenerationOptions{
		{Kind: ProjectNameOption, Value: "A"},
		{Kind: ProjectNameOption, Value: "B"},
	}
	kind, ok := opts.Duplicate()
	if !ok || kind != ProjectNameOption {
		t.Errorf("Duplicate() = (%q, %v)", kind, ok)
	}
	if _, ok := opts[:1].Duplicate(); ok {
		t.Error("single option reported as duplicate")
	}
	if name, ok := opts.ProjectName(); !ok || name != "A" {
		t.Errorf("ProjectName() = (%q, %v), want first declaration", name, ok)
	}
}

func TestConfigHash(t *testing.T) {
	def := DefaultConfig()
	if !def.CompatibleVersions.IsAll() || len(def.GenerationOptions) != 0 {
		t.Fatalf("DefaultConfig() = %+v", def)
	}

	a := Config{
		CompatibleVersions: VersionList("11.0"),
		GenerationOptions:  GenerationOptions{{Kind: ProjectNameOption, Value: "A"}, {Kind: "z", Value: "1"}},
	}
	b := Config{
		CompatibleVersions: VersionList("11.0"),
		GenerationOptions:  GenerationOptions{a.GenerationOptions[1], a.GenerationOptions[0]},
	}
	if !a.Equal(b) || a.Hash() != b.Hash() {
		t.Error("option order must not affect Config equality or hash")
	}
	if a.Hash() == def.Hash() {
		t.Error("different configs hashed equally")
	}
}

func TestParseKinds(t *testing.T) {
	if _, ok := ParseProduct("app"); !ok {
		t.Error("app should parse")
	}
	if _, ok := ParseProduct("watch-app"); ok {
		t.Error("watch-app is not a product")
	}
	for _, k := range []string{"target", "project", "framework", "library", "package", "sdk", "xcframework"} {
		if _, ok := ParseDependencyKind(k); !ok {
			t.Errorf("ParseDependencyKind(%q) failed", k)
		}
	}
	if _, ok := ParseDependencyKind("cocoapods"); ok {
		t.Error("cocoapods is not a dependency kind")
	}
}

func ExampleCompatibleVersions_Intersect() {
	dependent := VersionList("11.0", "11.1", "12.0")
	dependency := VersionList("12.0", "11.1")
	fmt.Println(dependent.Intersect(dependency))
	fmt.Println(AllVersions().Intersect(dependency))
	// Output:
	// [11.1, 12.0]
	// [12.0, 11.1]
}
