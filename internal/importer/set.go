package importer

// codeSet tracks coupon codes already seen during one import run.
type codeSet struct {
	codes map[string]struct{}
}

func newCodeSet(capacity int) *codeSet {
	return &codeSet{codes: make(map[string]struct{}, capacity)}
}

func (s *codeSet) Contains(code string) bool {
	_, exists := s.codes[code]
	return exists
}

func (s *codeSet) Add(code string) {
	s.codes[code] = struct{}{}
}

func (s *codeSet) Size() int {
	return len(s.codes)
}
