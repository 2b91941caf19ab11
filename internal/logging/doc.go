// Package logging builds the slog loggers used across slidecast. It offers a
// console handler for interactive use, a JSON handler for log files, typed
// attribute helpers, and the shared field names components attach to records
// so job, segment, and scene context stays consistent across the pipeline.
package logging
