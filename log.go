package numbergame

import "github.com/uber-go/zap"

var log = zap.New(zap.NewJSONEncoder())

// SetLogger replaces the logger used by the game
func SetLogger(l zap.Logger) {
	log = l
}
