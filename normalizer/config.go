package normalizer

import "github.com/socialmux/cleanser/model"

const (
	// ParserVersion is stamped into every aggregate's metadata.
	ParserVersion = "2.1"

	defaultMaxMediaPerPost = 9
	defaultMaxRepostDepth  = 10
)

// Config controls which extraction stages run and how deep the recursive
// structure resolution goes.
type Config struct {
	EnableQualityEnhancement       bool
	EnableMediaAnalysis            bool
	EnableUserProfiling            bool
	EnableCommentAnalysis          bool
	EnableTimestampStandardization bool

	// MaxMediaPerPost caps how many media items are built per post.
	MaxMediaPerPost int
	// MaxRepostDepth caps recursive repost resolution. Beyond the cap the
	// original post reference is dropped, which is a non-fatal truncation.
	MaxRepostDepth int
}

func DefaultConfig() Config {
	return Config{
		EnableQualityEnhancement:       true,
		EnableMediaAnalysis:            true,
		EnableUserProfiling:            true,
		EnableCommentAnalysis:          true,
		EnableTimestampStandardization: true,
		MaxMediaPerPost:                defaultMaxMediaPerPost,
		MaxRepostDepth:                 defaultMaxRepostDepth,
	}
}

// ConfigFromOptions derives a normalizer config from the orchestrator's
// cleaning options.
func ConfigFromOptions(opts model.CleaningOptions) Config {
	cfg := DefaultConfig()
	cfg.EnableQualityEnhancement = opts.EnableQualityEnhancement
	cfg.EnableMediaAnalysis = opts.EnableMediaAnalysis
	cfg.EnableUserProfiling = opts.EnableUserProfiling
	cfg.EnableCommentAnalysis = opts.EnableCommentAnalysis
	cfg.EnableTimestampStandardization = opts.EnableTimestampStandardization
	return cfg
}

func (c Config) maxMedia() int {
	if c.MaxMediaPerPost <= 0 {
		return defaultMaxMediaPerPost
	}
	return c.MaxMediaPerPost
}

func (c Config) maxDepth() int {
	if c.MaxRepostDepth <= 0 {
		return defaultMaxRepostDepth
	}
	return c.MaxRepostDepth
}
