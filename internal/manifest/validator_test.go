package manifest

import (
	"testing"

	"github.com/spf13/afero"
)

const validManifest = `[package]
name = "my-plugin"
version = "0.1.0"
edition = "2021"

[lib]
crate-type = ["cdylib"]

[dependencies]
quill = { git = "https://github.com/feather-rs/feather", branch = "main" }
`

func TestValidate_Valid(t *testing.T) {
	result, err := Validate([]byte(validManifest))
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid, got issues: %+v", result.Issues)
	}
}

func TestValidate_WorkspaceInheritance(t *testing.T) {
	doc := `[package]
name = "my-plugin"
version.workspace = true
edition.workspace = true

[lib]
crate-type = ["cdylib"]

[dependencies]
quill = "0.1"
serde = { workspace = true }
`
	result, err := Validate([]byte(doc))
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid, got issues: %+v", result.Issues)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		keyword string
	}{
		{
			name:    "missing lib",
			doc:     "[package]\nname = \"x\"\n\n[dependencies]\nquill = \"0.1\"\n",
			keyword: "required",
		},
		{
			name:    "not a cdylib",
			doc:     "[package]\nname = \"x\"\n\n[lib]\ncrate-type = [\"rlib\"]\n\n[dependencies]\nquill = \"0.1\"\n",
			keyword: "contains",
		},
		{
			name:    "no dependencies",
			doc:     "[package]\nname = \"x\"\n\n[lib]\ncrate-type = [\"cdylib\"]\n\n[dependencies]\n",
			keyword: "minProperties",
		},
		{
			name:    "bad version table",
			doc:     "[package]\nname = \"x\"\nversion = { path = \"..\" }\n\n[lib]\ncrate-type = [\"cdylib\"]\n\n[dependencies]\nquill = \"0.1\"\n",
			keyword: "required",
		},
		{
			name:    "empty package name",
			doc:     "[package]\nname = \"\"\n\n[lib]\ncrate-type = [\"cdylib\"]\n\n[dependencies]\nquill = \"0.1\"\n",
			keyword: "minLength",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if result.Valid {
				t.Fatal("expected invalid, got valid")
			}
			found := false
			for _, issue := range result.Issues {
				if issue.Keyword == tt.keyword {
					found = true
				}
				if issue.Message == "" {
					t.Errorf("issue %+v has no message", issue)
				}
			}
			if !found {
				t.Errorf("expected a %q issue, got %+v", tt.keyword, result.Issues)
			}
		})
	}
}

func TestValidate_InvalidTOML(t *testing.T) {
	if _, err := Validate([]byte("[package\nname =")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/p/Cargo.toml", []byte(validManifest), 0644); err != nil {
		t.Fatal(err)
	}
	result, err := ValidateFile(fs, "/p/Cargo.toml")
	if err != nil {
		t.Fatalf("ValidateFile() error: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid, got %+v", result.Issues)
	}

	if _, err := ValidateFile(fs, "/p/missing.toml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/p/Cargo.toml", []byte(validManifest), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := Parse(fs, "/p/Cargo.toml")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if m.Package.Name != "my-plugin" || m.Package.Edition != "2021" {
		t.Errorf("Package = %+v", m.Package)
	}
	if m.Lib == nil || len(m.Lib.CrateType) != 1 || m.Lib.CrateType[0] != "cdylib" {
		t.Errorf("Lib = %+v, want cdylib crate type", m.Lib)
	}
	if m.Package.VersionString() != "0.1.0" {
		t.Errorf("VersionString() = %q", m.Package.VersionString())
	}
	dep, ok := m.Dependencies["quill"].(map[string]any)
	if !ok {
		t.Fatalf("quill dependency = %#v, want inline table", m.Dependencies["quill"])
	}
	if dep["branch"] != "main" {
		t.Errorf("branch = %v, want main", dep["branch"])
	}
}

func TestParse_InheritedVersion(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := "[package]\nname = \"p\"\nversion.workspace = true\n"
	if err := afero.WriteFile(fs, "/p/Cargo.toml", []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := Parse(fs, "/p/Cargo.toml")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := m.Package.VersionString(); got != "" {
		t.Errorf("VersionString() = %q, want empty for inherited version", got)
	}
}
