package database

import (
	"path/filepath"
	"testing"

	"github.com/killallgit/transcribe-relay/internal/models"
	"github.com/killallgit/transcribe-relay/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.DatabaseConfig
		wantErr     bool
		checkResult func(*testing.T, *DB)
	}{
		{
			name: "successful connection with in-memory database",
			cfg:  config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
			checkResult: func(t *testing.T, conn *DB) {
				assert.NotNil(t, conn)
				assert.NotNil(t, conn.DB)
				sqlDB, err := conn.DB.DB()
				require.NoError(t, err)
				assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
			},
		},
		{
			name: "successful connection with file database in nested directory",
			cfg:  config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "nested", "test.db"), MaxConnections: 4},
			checkResult: func(t *testing.T, conn *DB) {
				assert.NoError(t, conn.HealthCheck())
				sqlDB, err := conn.DB.DB()
				require.NoError(t, err)
				assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)
			},
		},
		{
			name: "empty driver and path creates in-memory sqlite",
			cfg:  config.DatabaseConfig{},
			checkResult: func(t *testing.T, conn *DB) {
				assert.NotNil(t, conn)
			},
		},
		{
			name:    "postgres without dsn",
			cfg:     config.DatabaseConfig{Driver: "postgres"},
			wantErr: true,
		},
		{
			name:    "unsupported driver",
			cfg:     config.DatabaseConfig{Driver: "oracle"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Initialize(tt.cfg)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, conn)
				return
			}

			require.NoError(t, err)
			if tt.checkResult != nil {
				tt.checkResult(t, conn)
			}

			// Cleanup
			if conn != nil {
				conn.Close()
			}
		})
	}
}

func TestDB_HealthCheck(t *testing.T) {
	tests := []struct {
		name      string
		setupConn func() (*DB, func())
		wantErr   bool
	}{
		{
			name: "healthy connection",
			setupConn: func() (*DB, func()) {
				conn, _ := Initialize(config.DatabaseConfig{Path: ":memory:"})
				return conn, func() {
					if conn != nil {
						conn.Close()
					}
				}
			},
			wantErr: false,
		},
		{
			name: "closed connection",
			setupConn: func() (*DB, func()) {
				conn, _ := Initialize(config.DatabaseConfig{Path: ":memory:"})
				conn.Close()
				return conn, func() {}
			},
			wantErr: true,
		},
		{
			name: "nil connection",
			setupConn: func() (*DB, func()) {
				return nil, func() {}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, cleanup := tt.setupConn()
			defer cleanup()

			err := conn.HealthCheck()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDB_AutoMigrate(t *testing.T) {
	type TestModel struct {
		gorm.Model
		Name string
	}

	conn, err := Initialize(config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.AutoMigrate(&TestModel{}))

	var count int64
	err = conn.DB.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='test_models'").Scan(&count).Error
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.NoError(t, conn.AutoMigrate())
}

func TestDB_MigrateRollbackStatus(t *testing.T) {
	conn, err := Initialize(config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	statuses, err := conn.Status()
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "transcription_jobs", statuses[0].Table)
	assert.False(t, statuses[0].Applied)

	require.NoError(t, conn.Migrate())
	assert.True(t, conn.Migrator().HasTable(&models.TranscriptionJob{}))

	statuses, err = conn.Status()
	require.NoError(t, err)
	assert.True(t, statuses[0].Applied)

	// Migrating twice is harmless
	require.NoError(t, conn.Migrate())

	require.NoError(t, conn.Rollback())
	assert.False(t, conn.Migrator().HasTable(&models.TranscriptionJob{}))

	// Rolling back an empty schema is a no-op
	assert.NoError(t, conn.Rollback())
}
