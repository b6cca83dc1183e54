package midi

import "go.uber.org/zap"

var decoderLog = zap.NewNop()

func SetLogger(l *zap.Logger) {
	decoderLog = l.Named("midi")
}
