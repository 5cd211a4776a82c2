package rulesource

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/username/rangeselect/internal/restriction"
	"go.uber.org/zap"
)

// FileSource implements Source using a local YAML or JSON restriction file
type FileSource struct {
	filePath string
	logger   *zap.Logger
}

// NewFileSource creates a new FileSource instance
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   logger,
	}
}

// FetchRestrictions reads the rule set from the file. Entries with unknown
// types are logged and skipped so that one bad entry never invalidates the
// rest of the file.
func (fs *FileSource) FetchRestrictions() ([]restriction.Rule, error) {
	v := viper.New()
	v.SetConfigFile(fs.filePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read restriction file: %w", err)
	}

	var payload struct {
		Restrictions []restriction.Rule `mapstructure:"restrictions"`
	}
	if err := v.Unmarshal(&payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal restriction file: %w", err)
	}

	rules := make([]restriction.Rule, 0, len(payload.Restrictions))
	for i, rule := range payload.Restrictions {
		if !restriction.KnownType(rule.Type) {
			fs.logger.Warn("Skipping rule with unknown type",
				zap.Int("index", i),
				zap.String("type", rule.Type))
			continue
		}
		rules = append(rules, rule)
	}

	fs.logger.Info("Restriction file loaded",
		zap.String("file", fs.filePath),
		zap.Int("rules", len(rules)))

	return rules, nil
}
