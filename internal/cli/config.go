package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/gwen2d/internal/backup"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "GWEN2D"

	cfgKeyProjectDir = "project_dir"
	cfgKeyProject    = "project"
	cfgKeyLogLevel   = "log_level"

	cfgKeyBackupBucket    = "backup.bucket"
	cfgKeyBackupRegion    = "backup.region"
	cfgKeyBackupEndpoint  = "backup.endpoint"
	cfgKeyBackupPrefix    = "backup.prefix"
	cfgKeyBackupPathStyle = "backup.path_style"
	cfgKeyBackupKeyID     = "backup.access_key_id"
	cfgKeyBackupSecret    = "backup.secret_access_key"
	cfgKeyBackupToken     = "backup.session_token"

	defaultLogLevel = "warn"
)

// envKeys can be overridden with GWEN2D_<KEY> (dots become underscores).
// project_dir is resolved by the paths package, which gives config.yaml
// precedence over GWEN2D_PROJECT_DIR.
var envKeys = []string{
	cfgKeyProject,
	cfgKeyLogLevel,
	cfgKeyBackupBucket,
	cfgKeyBackupRegion,
	cfgKeyBackupEndpoint,
	cfgKeyBackupPrefix,
	cfgKeyBackupPathStyle,
	cfgKeyBackupKeyID,
	cfgKeyBackupSecret,
	cfgKeyBackupToken,
}

// configFile is the structure written to a fresh config.yaml.
type configFile struct {
	ProjectDir string        `yaml:"project_dir,omitempty"`
	Project    string        `yaml:"project,omitempty"`
	LogLevel   string        `yaml:"log_level"`
	Backup     backup.Config `yaml:"backup"`
}

const configHeader = "# gwen2d configuration\n" +
	"# Every key except project_dir can be overridden with GWEN2D_<KEY>,\n" +
	"# e.g. GWEN2D_PROJECT or GWEN2D_BACKUP_BUCKET.\n\n"

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt)); err != nil {
		return nil, fmt.Errorf("write default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyBackupRegion, backup.DefaultRegion)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values. An existing
// file is left alone.
func writeConfigIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		LogLevel: defaultLogLevel,
		Backup:   backup.Config{Region: backup.DefaultRegion},
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}

// backupConfig reads the backup section. Keys are read one by one so that
// environment overrides of nested keys apply.
func backupConfig(v *viper.Viper) backup.Config {
	return backup.Config{
		Bucket:          v.GetString(cfgKeyBackupBucket),
		Region:          v.GetString(cfgKeyBackupRegion),
		Endpoint:        v.GetString(cfgKeyBackupEndpoint),
		Prefix:          v.GetString(cfgKeyBackupPrefix),
		PathStyle:       v.GetBool(cfgKeyBackupPathStyle),
		AccessKeyID:     v.GetString(cfgKeyBackupKeyID),
		SecretAccessKey: v.GetString(cfgKeyBackupSecret),
		SessionToken:    v.GetString(cfgKeyBackupToken),
	}
}
