package main

import (
	"strings"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestTableSpecs(t *testing.T) {
	specs := tableSpecs()
	if len(specs) != 3 {
		t.Fatalf("specs = %d, want 3", len(specs))
	}

	want := []string{"customers", "suppliers", "transactions"}
	for i, spec := range specs {
		if spec.name != want[i] {
			t.Errorf("spec[%d].name = %q, want %q", i, spec.name, want[i])
		}
		if len(spec.schema) == 0 {
			t.Errorf("spec %q has an empty schema", spec.name)
		}
		// Every table leads with its required id column to delete by.
		first := spec.schema[0]
		if !strings.HasSuffix(first.Name, "_id") || !first.Required {
			t.Errorf("spec %q leads with %+v, want a required *_id column", spec.name, first)
		}
	}
}

func TestAlreadyExists(t *testing.T) {
	if !alreadyExists(&googleapi.Error{Code: 409}) {
		t.Error("409 not treated as already-exists")
	}
	if alreadyExists(&googleapi.Error{Code: 404}) {
		t.Error("404 treated as already-exists")
	}
	if alreadyExists(nil) {
		t.Error("nil error treated as already-exists")
	}
}
