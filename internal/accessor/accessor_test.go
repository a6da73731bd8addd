package accessor

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/cmunro/confpath/internal/models"
)

func TestGet_EmptyPathReturnsRoot(t *testing.T) {
	root := models.JSONObject{"a": "b"}
	value, ok := Get(root, models.Path{})
	if !ok {
		t.Fatalf("Get() ok = false, want true")
	}
	if !reflect.DeepEqual(value, root) {
		t.Errorf("Get() = %v, want root %v", value, root)
	}
}

func TestGet_NestedValue(t *testing.T) {
	root := models.JSONObject{
		"cli": models.JSONObject{
			"warnings": models.JSONObject{
				"versionMismatch": false,
			},
		},
		"projects": models.JSONArray{
			models.JSONObject{"root": "apps/one"},
			models.JSONObject{"root": "apps/two"},
		},
	}

	tests := []struct {
		name string
		path models.Path
		want models.JSONValue
	}{
		{
			"deep key",
			models.Path{models.Key("cli"), models.Key("warnings"), models.Key("versionMismatch")},
			false,
		},
		{
			"array element field",
			models.Path{models.Key("projects"), models.Index(1), models.Key("root")},
			"apps/two",
		},
		{
			"container value",
			models.Path{models.Key("cli"), models.Key("warnings")},
			models.JSONObject{"versionMismatch": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := Get(root, tt.path)
			if !ok {
				t.Fatalf("Get() ok = false, want true")
			}
			if !reflect.DeepEqual(value, tt.want) {
				t.Errorf("Get() = %v, want %v", value, tt.want)
			}
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	root := models.JSONObject{
		"a":      models.JSONArray{json.Number("1"), json.Number("2")},
		"scalar": "text",
	}

	tests := []struct {
		name string
		path models.Path
	}{
		{"missing key", models.Path{models.Key("missing")}},
		{"key step over array", models.Path{models.Key("a"), models.Key("b")}},
		{"index step over object", models.Path{models.Index(0)}},
		{"index out of range", models.Path{models.Key("a"), models.Index(9)}},
		{"descend into scalar", models.Path{models.Key("scalar"), models.Key("x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Get(root, tt.path); ok {
				t.Errorf("Get(%v) ok = true, want false", tt.path)
			}
		})
	}
}

func TestSet_CreatesIntermediateContainers(t *testing.T) {
	root := models.JSONObject{}
	newRoot, ok := Set(root, models.Path{models.Key("a"), models.Key("b")}, json.Number("5"))
	if !ok {
		t.Fatalf("Set() ok = false, want true")
	}

	expected := models.JSONObject{
		"a": models.JSONObject{"b": json.Number("5")},
	}
	if !reflect.DeepEqual(newRoot, expected) {
		t.Errorf("Set() = %v, want %v", newRoot, expected)
	}
}

func TestSet_CreatesArrayWhenNextStepIsIndex(t *testing.T) {
	root := models.JSONObject{}
	newRoot, ok := Set(root, models.Path{models.Key("items"), models.Index(2), models.Key("name")}, "third")
	if !ok {
		t.Fatalf("Set() ok = false, want true")
	}

	expected := models.JSONObject{
		"items": models.JSONArray{
			nil,
			nil,
			models.JSONObject{"name": "third"},
		},
	}
	if !reflect.DeepEqual(newRoot, expected) {
		t.Errorf("Set() = %v, want %v", newRoot, expected)
	}
}

func TestSet_OverwritesExistingValue(t *testing.T) {
	root := models.JSONObject{"cli": models.JSONObject{"packageManager": "npm"}}
	newRoot, ok := Set(root, models.Path{models.Key("cli"), models.Key("packageManager")}, "yarn")
	if !ok {
		t.Fatalf("Set() ok = false, want true")
	}

	value, ok := Get(newRoot, models.Path{models.Key("cli"), models.Key("packageManager")})
	if !ok || value != "yarn" {
		t.Errorf("Get() after Set() = %v, %v; want \"yarn\", true", value, ok)
	}
}

func TestSet_ScalarBlocksWalk(t *testing.T) {
	root := models.JSONObject{"a": json.Number("1")}
	_, ok := Set(root, models.Path{models.Key("a"), models.Key("b")}, json.Number("5"))
	if ok {
		t.Fatalf("Set() ok = true, want false when a scalar blocks the walk")
	}

	// The original document must be unchanged.
	expected := models.JSONObject{"a": json.Number("1")}
	if !reflect.DeepEqual(root, expected) {
		t.Errorf("Set() mutated the document on failure: %v", root)
	}
}

func TestSet_KindMismatches(t *testing.T) {
	tests := []struct {
		name string
		root models.JSONValue
		path models.Path
	}{
		{"key step over array", models.JSONObject{"a": models.JSONArray{}}, models.Path{models.Key("a"), models.Key("b")}},
		{"index step over object", models.JSONObject{"a": models.JSONObject{}}, models.Path{models.Key("a"), models.Index(0)}},
		{"empty path", models.JSONObject{}, models.Path{}},
		{"scalar root", "text", models.Path{models.Key("a")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Set(tt.root, tt.path, "v"); ok {
				t.Errorf("Set() ok = true, want false")
			}
		})
	}
}

func TestSet_GrowsArrayWithNullPadding(t *testing.T) {
	root := models.JSONObject{"list": models.JSONArray{"a"}}
	newRoot, ok := Set(root, models.Path{models.Key("list"), models.Index(3)}, "d")
	if !ok {
		t.Fatalf("Set() ok = false, want true")
	}

	expected := models.JSONObject{"list": models.JSONArray{"a", nil, nil, "d"}}
	if !reflect.DeepEqual(newRoot, expected) {
		t.Errorf("Set() = %v, want %v", newRoot, expected)
	}
}

func TestSet_ThenGetRoundTrips(t *testing.T) {
	paths := []models.Path{
		{models.Key("x")},
		{models.Key("a"), models.Key("b"), models.Key("c")},
		{models.Key("arr"), models.Index(0)},
		{models.Key("arr"), models.Index(2), models.Key("deep"), models.Index(1)},
	}

	for _, path := range paths {
		root := models.JSONObject{}
		newRoot, ok := Set(models.JSONValue(root), path, "value")
		if !ok {
			t.Fatalf("Set(%v) ok = false, want true", path)
		}
		got, ok := Get(newRoot, path)
		if !ok {
			t.Fatalf("Get(%v) after Set ok = false, want true", path)
		}
		if got != "value" {
			t.Errorf("Get(%v) after Set = %v, want \"value\"", path, got)
		}
	}
}
