package logger

import (
	"fmt"
	"io"
	"sync/atomic"

	gommonlog "github.com/labstack/gommon/log"
)

// EchoAdapter routes echo's internal logger (panic recovery, server start
// errors) into a Logger. It satisfies echo.Logger.
//
//	e := echo.New()
//	e.Logger = logger.NewEchoAdapter(log.Module("echo"))
type EchoAdapter struct {
	log    Logger
	level  atomic.Uint32
	prefix atomic.Pointer[string]
}

// NewEchoAdapter wraps log. A nil log discards everything.
func NewEchoAdapter(log Logger) *EchoAdapter {
	if log == nil {
		log = Discard()
	}
	a := &EchoAdapter{log: log}
	a.level.Store(uint32(gommonlog.DEBUG))
	return a
}

// Output is io.Discard; output goes through the wrapped Logger.
func (a *EchoAdapter) Output() io.Writer { return io.Discard }

func (a *EchoAdapter) SetOutput(io.Writer) {}

func (a *EchoAdapter) SetHeader(string) {}

func (a *EchoAdapter) Prefix() string {
	if p := a.prefix.Load(); p != nil {
		return *p
	}
	return ""
}

// SetPrefix adds a prefix field to every entry
func (a *EchoAdapter) SetPrefix(p string) { a.prefix.Store(&p) }

func (a *EchoAdapter) Level() gommonlog.Lvl { return gommonlog.Lvl(a.level.Load()) }

// SetLevel filters on top of the wrapped Logger's own level
func (a *EchoAdapter) SetLevel(v gommonlog.Lvl) { a.level.Store(uint32(v)) }

func (a *EchoAdapter) emit(lvl gommonlog.Lvl, msg string, fields ...Field) {
	if a.Level() == gommonlog.OFF || lvl < a.Level() {
		return
	}
	if p := a.Prefix(); p != "" {
		fields = append(fields, String("prefix", p))
	}
	switch lvl {
	case gommonlog.DEBUG:
		a.log.Debug(msg, fields...)
	case gommonlog.WARN:
		a.log.Warn(msg, fields...)
	case gommonlog.ERROR:
		a.log.Error(msg, fields...)
	default:
		a.log.Info(msg, fields...)
	}
}

func (a *EchoAdapter) Print(i ...any) { a.emit(gommonlog.INFO, fmt.Sprint(i...)) }
func (a *EchoAdapter) Printf(f string, args ...any) { a.emit(gommonlog.INFO, fmt.Sprintf(f, args...)) }
func (a *EchoAdapter) Printj(j gommonlog.JSON) { a.emit(gommonlog.INFO, "echo", Any("data", j)) }

func (a *EchoAdapter) Debug(i ...any) { a.emit(gommonlog.DEBUG, fmt.Sprint(i...)) }
func (a *EchoAdapter) Debugf(f string, args ...any) { a.emit(gommonlog.DEBUG, fmt.Sprintf(f, args...)) }
func (a *EchoAdapter) Debugj(j gommonlog.JSON) { a.emit(gommonlog.DEBUG, "echo", Any("data", j)) }

func (a *EchoAdapter) Info(i ...any) { a.emit(gommonlog.INFO, fmt.Sprint(i...)) }
func (a *EchoAdapter) Infof(f string, args ...any) { a.emit(gommonlog.INFO, fmt.Sprintf(f, args...)) }
func (a *EchoAdapter) Infoj(j gommonlog.JSON) { a.emit(gommonlog.INFO, "echo", Any("data", j)) }

func (a *EchoAdapter) Warn(i ...any) { a.emit(gommonlog.WARN, fmt.Sprint(i...)) }
func (a *EchoAdapter) Warnf(f string, args ...any) { a.emit(gommonlog.WARN, fmt.Sprintf(f, args...)) }
func (a *EchoAdapter) Warnj(j gommonlog.JSON) { a.emit(gommonlog.WARN, "echo", Any("data", j)) }

func (a *EchoAdapter) Error(i ...any) { a.emit(gommonlog.ERROR, fmt.Sprint(i...)) }
func (a *EchoAdapter) Errorf(f string, args ...any) { a.emit(gommonlog.ERROR, fmt.Sprintf(f, args...)) }
func (a *EchoAdapter) Errorj(j gommonlog.JSON) { a.emit(gommonlog.ERROR, "echo", Any("data", j)) }

// Fatal and Panic log at error level and then panic. The server recovers
// rather than exiting the process.
func (a *EchoAdapter) Fatal(i ...any) { a.fail(fmt.Sprint(i...)) }
func (a *EchoAdapter) Fatalf(f string, args ...any) { a.fail(fmt.Sprintf(f, args...)) }
func (a *EchoAdapter) Fatalj(j gommonlog.JSON) { a.fail(fmt.Sprint(j)) }
func (a *EchoAdapter) Panic(i ...any) { a.fail(fmt.Sprint(i...)) }
func (a *EchoAdapter) Panicf(f string, args ...any) { a.fail(fmt.Sprintf(f, args...)) }
func (a *EchoAdapter) Panicj(j gommonlog.JSON) { a.fail(fmt.Sprint(j)) }

func (a *EchoAdapter) fail(msg string) {
	a.log.Error(msg)
	panic(msg)
}
