package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// WriteCollapsed renders the folded tree as collapsed stacks, one
// "frame;frame;... count" line per call path with self samples. Thread nodes
// are written as "[name]".
func WriteCollapsed(w io.Writer, root *Sample) error {
	bw := bufio.NewWriter(w)
	var path []string
	var visit func(s *Sample)
	visit = func(s *Sample) {
		label := s.Name
		if s.Kind == Thread {
			label = "[" + s.Name + "]"
		}
		path = append(path, label)
		self := s.Value
		for _, c := range s.Children() {
			self -= c.Value
		}
		if self > 0 {
			bw.WriteString(strings.Join(path, ";"))
			bw.WriteByte(' ')
			bw.WriteString(strconv.Itoa(self))
			bw.WriteByte('\n')
		}
		for _, c := range s.Children() {
			visit(c)
		}
		path = path[:len(path)-1]
	}
	for _, c := range root.Children() {
		visit(c)
	}
	return bw.Flush()
}
