package meta

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	_ "github.com/viant/afs/mem"
	"gopkg.in/yaml.v3"
)

func TestService_Resolve(t *testing.T) {
	service := New(afs.New(), "mem://localhost/repo")
	assert.Equal(t, "mem://localhost/repo/order.bpmn", service.Resolve("order.bpmn"))
	assert.Equal(t, "mem://localhost/other/scan.yaml", service.Resolve("mem://localhost/other/scan.yaml"))
	assert.Equal(t, "/etc/procdoc/scan.yaml", service.Resolve("/etc/procdoc/scan.yaml"))

	os.Setenv("PROCDOC_HOME", "mem://localhost/home")
	defer os.Unsetenv("PROCDOC_HOME")
	assert.Equal(t, "mem://localhost/home/scan.yaml", service.Resolve("${env.PROCDOC_HOME}/scan.yaml"))
}

func TestService_DownloadAndLoad(t *testing.T) {
	fs := afs.New()
	ctx := context.Background()
	err := fs.Upload(ctx, "mem://localhost/meta/scan.yaml", file.DefaultFileOsMode, strings.NewReader("name: vuln-scan\n"))
	assert.Nil(t, err)

	service := New(fs, "mem://localhost/meta")

	data, err := service.Download(ctx, "scan.yaml")
	assert.Nil(t, err)
	assert.Contains(t, string(data), "vuln-scan")

	var node yaml.Node
	assert.Nil(t, service.Load(ctx, "scan.yaml", &node))

	ok, err := service.Exists(ctx, "scan.yaml")
	assert.Nil(t, err)
	assert.True(t, ok)
	ok, err = service.Exists(ctx, "missing.yaml")
	assert.Nil(t, err)
	assert.False(t, ok)

	_, err = service.Download(ctx, "missing.yaml")
	assert.NotNil(t, err)
}
