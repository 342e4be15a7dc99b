// Package audit 划转审计日志：只追加的纯文本文件，每行 "<本地时间> | <消息>"
package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// TimestampLayout 本地时间 ISO-8601（微秒）
const TimestampLayout = "2006-01-02T15:04:05.000000"

// DefaultFile 默认审计文件
const DefaultFile = "transfers.log"

// NoRotateMaxSize 默认单文件上限（MB，约 1TB），审计文件实际上不会被轮转
const NoRotateMaxSize = 1 << 20

// Log 审计日志
type Log struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// New 写入任意 io.Writer
func New(w io.Writer) *Log {
	return &Log{w: w, now: time.Now}
}

// FileConfig 审计文件配置
type FileConfig struct {
	Path    string
	MaxSize int // MB，超过后轮转；<=0 使用 NoRotateMaxSize
}

// OpenFile 以追加方式打开审计文件
func OpenFile(cfg FileConfig) (*Log, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultFile
	}
	// 确保目录存在
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("创建审计目录失败: %w", err)
		}
	}
	// lumberjack 新建文件权限为 0600，这里先按 0644（受 umask 影响）创建，之后以追加方式复用
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("打开审计文件失败: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("打开审计文件失败: %w", err)
	}

	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = NoRotateMaxSize
	}
	return New(&lumberjack.Logger{
		Filename: path,
		MaxSize:  maxSize,
	}), nil
}

// SetClock 替换时钟（测试用）
func (l *Log) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Record 追加一行
func (l *Log) Record(message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 保证一条消息只占一行
	message = strings.ReplaceAll(message, "\n", " ")
	line := fmt.Sprintf("%s | %s\n", l.now().Format(TimestampLayout), message)
	_, err := io.WriteString(l.w, line)
	return err
}

// Close 关闭底层文件
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
