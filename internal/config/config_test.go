package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/participant"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/test.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
	assert.Equal(t, participant.ModeTraditional, cfg.WorkflowMode())
	assert.True(t, cfg.Workflow.AllowReviewerOnly)
	assert.False(t, cfg.Workflow.RevisionOneVoteReject)
	assert.Equal(t, 50, cfg.Workflow.VoteLogLimit)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_WorkflowOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/test.db
workflow:
  mode: traditional_only_approval
  revision_one_vote_reject: true
  vote_log_limit: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, participant.ModeTraditionalOnlyApproval, cfg.WorkflowMode())
	assert.True(t, cfg.Workflow.RevisionOneVoteReject)
	assert.Equal(t, 10, cfg.Workflow.VoteLogLimit)
}

func TestLoad_InvalidMode(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/test.db
workflow:
  mode: committee_vote
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Path: "data/documents.db"},
		Workflow: WorkflowConfig{Mode: string(participant.ModeTraditional), VoteLogLimit: 50},
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "unknown workflow mode",
			mutate:  func(c *Config) { c.Workflow.Mode = "freestyle" },
			wantErr: true,
		},
		{
			name:    "zero vote log limit",
			mutate:  func(c *Config) { c.Workflow.VoteLogLimit = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
