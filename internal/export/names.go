package export

import (
	"github.com/jerrinot/jfrview/internal/jfr"
	"github.com/jerrinot/jfrview/internal/symbol"
)

// frameNames composes "{prettyClass}:{method}" display names. Each distinct
// method is composed once per pass.
type frameNames struct {
	classes *symbol.Cache
	names   map[jfr.Method]string
}

func newFrameNames() *frameNames {
	return &frameNames{classes: symbol.NewCache(), names: make(map[jfr.Method]string)}
}

func (n *frameNames) name(m jfr.Method) string {
	if s, ok := n.names[m]; ok {
		return s
	}
	s := m.Name
	if m.Class.Name != "" {
		s = n.classes.Pretty(m.Class.Name) + ":" + m.Name
	}
	n.names[m] = s
	return s
}
