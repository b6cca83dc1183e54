package layout

import "go.uber.org/zap"

var (
	engineLog  = zap.NewNop()
	commandLog = zap.NewNop()
)

func SetLogger(l *zap.Logger) {
	engineLog = l.Named("layout")
	commandLog = l.Named("mcfunction")
}
