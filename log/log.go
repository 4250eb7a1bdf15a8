package log

// Info logs to INFO level.
func Info(v ...any) {
	DefaultLogger.Info(v...)
}

// Infof logs to INFO level
func Infof(format string, v ...any) {
	DefaultLogger.Infof(format, v...)
}

// Warning logs to the WARNING level.
func Warning(v ...any) {
	DefaultLogger.Warn(v...)
}

// Warningf logs to the WARNING level.
func Warningf(format string, v ...any) {
	DefaultLogger.Warnf(format, v...)
}

// Error logs to the ERROR level.
func Error(v ...any) {
	DefaultLogger.Error(v...)
}

// Errorf logs to the ERROR level.
func Errorf(format string, v ...any) {
	DefaultLogger.Errorf(format, v...)
}

// Debug logs to the DEBUG level.
func Debug(v ...any) {
	DefaultLogger.Debug(v...)
}

// Debugf logs to the DEBUG level.
func Debugf(format string, v ...any) {
	DefaultLogger.Debugf(format, v...)
}
