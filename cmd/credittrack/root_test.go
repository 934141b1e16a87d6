package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/credittrack/internal/config"
	"github.com/rpattn/credittrack/internal/domain"
	"github.com/rpattn/credittrack/internal/layout"
	"github.com/rpattn/credittrack/internal/repository"
)

func TestRootCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "import", "layouts"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestImportFlagsRequired(t *testing.T) {
	for _, name := range []string{"file", "project-type", "operator"} {
		f := importCmd.Flags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, []string{"true"}, f.Annotations[cobra.BashCompOneRequiredFlag], name)
	}
}

func TestLayoutsCommandListsRegistry(t *testing.T) {
	cfg = &config.Config{}
	var out bytes.Buffer
	layoutsCmd.SetOut(&out)
	t.Cleanup(func() { layoutsCmd.SetOut(nil) })

	require.NoError(t, layoutsCmd.RunE(layoutsCmd, nil))
	assert.Contains(t, out.String(), "FICHIER 1")
	assert.Contains(t, out.String(), "FICHIER 2")
}

func TestLayoutsCommandBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layouts: [{tag: X}]"), 0o600))
	cfg = &config.Config{Ingestion: config.IngestionConfig{LayoutsFile: path}}

	assert.Error(t, layoutsCmd.RunE(layoutsCmd, nil))
}

type emptyProjectTypes struct{}

func (emptyProjectTypes) GetByID(context.Context, string) (domain.ProjectType, error) {
	return domain.ProjectType{}, nil
}

func (emptyProjectTypes) List(context.Context) ([]domain.ProjectType, error) {
	return []domain.ProjectType{}, nil
}

func (emptyProjectTypes) Create(_ context.Context, pt domain.ProjectType) (domain.ProjectType, error) {
	return pt, nil
}

func (emptyProjectTypes) Delete(context.Context, string) error { return repository.ErrNotFound }

func TestRouterServesHealthAndLayouts(t *testing.T) {
	registry, err := layout.DefaultRegistry()
	require.NoError(t, err)
	router := newRouter(
		config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}, MaxUploadMB: 1},
		config.IngestionConfig{OperatorHeader: "X-Operator"},
		layout.NewResolver(emptyProjectTypes{}, registry),
		nil,
	)

	for _, path := range []string{"/health", "/layouts", "/project-types"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/imports/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
