package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 全局日志实例，InitLogger 之前使用 info 级别输出到 stdout
var Log = newLogger(logrus.InfoLevel, os.Stdout)

// FileOptions 日志文件滚动参数
type FileOptions struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// CustomFormatter 自定义日志格式
type CustomFormatter struct{}

// Format 实现 logrus.Formatter 接口
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var fileLine string
	if entry.HasCaller() {
		fileLine = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	// INFO, WARN, ERRO
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] [%s] %s", entry.Time.Format("2006-01-02 15:04:05"), level, fileLine, entry.Message)
	for _, k := range sortedKeys(entry.Data) {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// InitLogger 初始化日志，filePath 非空时同时写入按大小滚动的日志文件
func InitLogger(levelStr string, filePath string, opts ...FileOptions) error {
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}

	writers := []io.Writer{os.Stdout}
	if filePath != "" {
		logDir := filepath.Dir(filePath)
		if logDir != "." {
			if err := os.MkdirAll(logDir, 0o755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}

		o := FileOptions{MaxSizeMB: 50, MaxBackups: 5, MaxAgeDays: 14}
		if len(opts) > 0 {
			o = opts[0]
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    o.MaxSizeMB,
			MaxBackups: o.MaxBackups,
			MaxAge:     o.MaxAgeDays,
			Compress:   true,
		})
	}

	Log = newLogger(level, io.MultiWriter(writers...))
	return nil
}

func newLogger(level logrus.Level, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetReportCaller(true)
	l.SetFormatter(&CustomFormatter{})
	l.SetLevel(level)
	l.SetOutput(out)
	return l
}

func sortedKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
