package odfcontent

// decision is what the engine chose for an element at its start tag. The
// paired end tag replays it.
type decision uint8

const (
	decisionTransparent decision = iota // no mapping: tags dropped, children walked
	decisionMapped                      // emitted as frame.target
	decisionHeading                     // emitted as the top of headingStack
	decisionFilterRoot                  // opened a completely filtered subtree
	decisionSuppressed                  // inside a filtered subtree
)

func (d decision) String() string {
	switch d {
	case decisionTransparent:
		return "transparent"
	case decisionMapped:
		return "mapped"
	case decisionHeading:
		return "heading"
	case decisionFilterRoot:
		return "filter-root"
	case decisionSuppressed:
		return "suppressed"
	}
	return "unknown"
}

// frame is the per-depth record of an open element.
type frame struct {
	text     bool // element is in the text namespace
	decision decision
	target   TargetElement
}

// state is the traversal state of one conversion. depth is len(frames).
type state struct {
	frames       []frame
	filterDepth  int
	headingStack []string
}

func (s *state) depth() int { return len(s.frames) }

func (s *state) push(f frame) { s.frames = append(s.frames, f) }

func (s *state) top() *frame { return &s.frames[len(s.frames)-1] }

func (s *state) pop() { s.frames = s.frames[:len(s.frames)-1] }

// textAllowed reports whether character data may reach the sink.
func (s *state) textAllowed() bool {
	d := s.depth()
	return s.filterDepth == 0 && d > 0 && s.frames[d-1].text
}

func (s *state) pushHeading(tag string) { s.headingStack = append(s.headingStack, tag) }

func (s *state) popHeading() (string, bool) {
	n := len(s.headingStack)
	if n == 0 {
		return "", false
	}
	tag := s.headingStack[n-1]
	s.headingStack = s.headingStack[:n-1]
	return tag, true
}

func (s *state) balanced() bool {
	return len(s.frames) == 0 && s.filterDepth == 0 && len(s.headingStack) == 0
}
