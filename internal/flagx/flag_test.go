package flagx

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	serverFlags := []string{"-a", "-t", "-b"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "keeps own flags, drops the rest",
			args:    []string{"-a", ":9090", "-c", "gallery.json", "-t", "gallery_entries"},
			allowed: serverFlags,
			want:    []string{"-a", ":9090", "-t", "gallery_entries"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=prod.json", "-b=media", "-x=1"},
			allowed: []string{"--config", "-b"},
			want:    []string{"--config=prod.json", "-b=media"},
		},
		{
			name:    "value that starts with a dash is not consumed",
			args:    []string{"-b", "-t", "gallery_entries"},
			allowed: serverFlags,
			want:    []string{"-b", "-t", "gallery_entries"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-a"},
			allowed: serverFlags,
			want:    []string{"-a"},
		},
		{
			name:    "equals value may look like a flag",
			args:    []string{"--config=--odd.json"},
			allowed: []string{"--config"},
			want:    []string{"--config=--odd.json"},
		},
		{
			name:    "repeats kept in order",
			args:    []string{"-b", "one", "-b", "two"},
			allowed: serverFlags,
			want:    []string{"-b", "one", "-b", "two"},
		},
		{
			name:    "positional args ignored",
			args:    []string{"serve", "now"},
			allowed: serverFlags,
			want:    []string{},
		},
		{
			name:    "empty",
			args:    nil,
			allowed: serverFlags,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("FilterArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"gallery-server"}, args...)
}

func TestJsonConfigFlags(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		withArgs(t, "-a", ":8080", "-c", "/etc/gallery/config.json")
		assert.Equal(t, "/etc/gallery/config.json", JsonConfigFlags())
	})

	t.Run("long", func(t *testing.T) {
		withArgs(t, "-config", "gallery.json")
		assert.Equal(t, "gallery.json", JsonConfigFlags())
	})

	t.Run("last wins", func(t *testing.T) {
		withArgs(t, "-c", "one.json", "--config=two.json")
		assert.Equal(t, "two.json", JsonConfigFlags())
	})

	t.Run("absent", func(t *testing.T) {
		withArgs(t, "-b", "media")
		assert.Empty(t, JsonConfigFlags())
	})
}

func TestEnvFileFlags(t *testing.T) {
	withArgs(t, "-a", ":8080", "-E", "/etc/gallery.env")
	assert.Equal(t, "/etc/gallery.env", EnvFileFlags())

	withArgs(t, "--env-file=prod.env", "-c", "conf.json")
	assert.Equal(t, "prod.env", EnvFileFlags())

	withArgs(t, "-c", "conf.json")
	assert.Empty(t, EnvFileFlags())
}

func TestPathFlag(t *testing.T) {
	withArgs(t, "-m", "manifests/data.json", "-x", "5")
	assert.Equal(t, "manifests/data.json", PathFlag("m", "manifest", "manifest key"))
}
