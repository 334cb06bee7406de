package sympad_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kylelemons/godebug/pretty"

	sympad "github.com/njchilds90/gosympad"
)

func TestParseConfig(t *testing.T) {
	testCases := []struct {
		name    string
		yaml    string
		want    *sympad.Config
		wantErr bool
	}{
		{
			name: "empty",
			yaml: "",
			want: &sympad.Config{Doit: true},
		},
		{
			name: "full",
			yaml: "precision: 30\nengine_ei: true\nuser_funcs: [f, g]\ndoit: false\n",
			want: &sympad.Config{Precision: 30, EngineEI: true, UserFuncs: []string{"f", "g"}},
		},
		{
			name:    "unknown key",
			yaml:    "precison: 30\n",
			wantErr: true,
		},
		{
			name:    "negative precision",
			yaml:    "precision: -1\n",
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := sympad.ParseConfig([]byte(tc.yaml))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("want an error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %+v", err)
			}
			if diff := pretty.Compare(tc.want, got); diff != "" {
				t.Errorf("diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sympad.yaml")
	if err := os.WriteFile(path, []byte("precision: 20\n"), 0600); err != nil {
		t.Fatalf("write: %+v", err)
	}
	cfg, err := sympad.LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %+v", err)
	}
	if cfg.Precision != 20 || !cfg.Doit {
		t.Errorf("got %+v", cfg)
	}

	if _, err := sympad.LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("want an error for a missing file")
	}
}
