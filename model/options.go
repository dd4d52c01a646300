package model

// CleaningOptions is the configuration surface recognized by the cleaning
// pipeline. Each toggle is consumed verbatim by the orchestrator and the
// content normalizer.
type CleaningOptions struct {
	EnableQualityEnhancement       bool `json:"enableQualityEnhancement" yaml:"enable_quality_enhancement"`
	EnableMediaAnalysis            bool `json:"enableMediaAnalysis" yaml:"enable_media_analysis"`
	EnableUserProfiling            bool `json:"enableUserProfiling" yaml:"enable_user_profiling"`
	EnableCommentAnalysis          bool `json:"enableCommentAnalysis" yaml:"enable_comment_analysis"`
	EnableTimestampStandardization bool `json:"enableTimestampStandardization" yaml:"enable_timestamp_standardization"`
	EnableDuplicateDetection       bool `json:"enableDuplicateDetection" yaml:"enable_duplicate_detection"`
	EnableDataValidation           bool `json:"enableDataValidation" yaml:"enable_data_validation"`

	// MaxBatchSize is the chunk size for batch cleaning.
	MaxBatchSize int `json:"maxBatchSize" yaml:"max_batch_size"`
	// QualityThreshold is the acceptable post quality score. Posts scoring
	// below it are flagged during result validation, which stays non-fatal.
	QualityThreshold float64 `json:"qualityThreshold" yaml:"quality_threshold"`
}

const (
	DefaultMaxBatchSize     = 50
	DefaultQualityThreshold = 0.7
)

// DefaultCleaningOptions enables every processing stage.
func DefaultCleaningOptions() CleaningOptions {
	return CleaningOptions{
		EnableQualityEnhancement:       true,
		EnableMediaAnalysis:            true,
		EnableUserProfiling:            true,
		EnableCommentAnalysis:          true,
		EnableTimestampStandardization: true,
		EnableDuplicateDetection:       false,
		EnableDataValidation:           true,
		MaxBatchSize:                   DefaultMaxBatchSize,
		QualityThreshold:               DefaultQualityThreshold,
	}
}

// Normalize fills in zero values with defaults so that a partially populated
// options struct from an API request or config file is always usable.
func (o CleaningOptions) Normalize() CleaningOptions {
	if o.MaxBatchSize <= 0 {
		o.MaxBatchSize = DefaultMaxBatchSize
	}
	if o.QualityThreshold <= 0 {
		o.QualityThreshold = DefaultQualityThreshold
	}
	return o
}
