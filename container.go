package ldexpand

import (
	"math/bits"
	"strings"
)

// Container is the set of container kinds a term is declared with.
type Container uint8

// Container kinds, one per @container keyword.
const (
	ContainerGraph Container = 1 << iota
	ContainerID
	ContainerIndex
	ContainerLanguage
	ContainerList
	ContainerSet
	ContainerType

	ContainerNone Container = 0
)

var containerKeywords = []struct {
	c       Container
	keyword string
}{
	{ContainerGraph, KeywordGraph},
	{ContainerID, KeywordID},
	{ContainerIndex, KeywordIndex},
	{ContainerLanguage, KeywordLanguage},
	{ContainerList, KeywordList},
	{ContainerSet, KeywordSet},
	{ContainerType, KeywordType},
}

func containerFor(keyword string) (Container, bool) {
	for _, ck := range containerKeywords {
		if ck.keyword == keyword {
			return ck.c, true
		}
	}
	return ContainerNone, false
}

// Has reports if all kinds in o are part of the container.
func (c Container) Has(o Container) bool {
	return o != ContainerNone && c&o == o
}

// Any reports if any kind in o is part of the container.
func (c Container) Any(o Container) bool {
	return c&o != 0
}

// Keywords returns the @container keywords, sorted.
func (c Container) Keywords() []string {
	res := make([]string, 0, bits.OnesCount8(uint8(c)))
	for _, ck := range containerKeywords {
		if c.Has(ck.c) {
			res = append(res, ck.keyword)
		}
	}
	return res
}

func (c Container) String() string {
	if c == ContainerNone {
		return KeywordNone
	}
	return strings.Join(c.Keywords(), ",")
}

// parseContainer validates the values of @container. fromArray signals that
// the values were given as a JSON array.
func parseContainer(values []string, fromArray bool, modeLD10 bool) (Container, error) {
	if modeLD10 && fromArray {
		return ContainerNone, ErrInvalidContainerMapping
	}

	var res Container
	for _, v := range values {
		c, ok := containerFor(v)
		if !ok {
			return ContainerNone, ErrInvalidContainerMapping
		}
		if res.Has(c) {
			return ContainerNone, ErrInvalidContainerMapping
		}
		res |= c
	}

	if modeLD10 && res.Any(ContainerGraph|ContainerID|ContainerType) {
		return ContainerNone, ErrInvalidContainerMapping
	}

	if !res.valid() {
		return ContainerNone, ErrInvalidContainerMapping
	}

	return res, nil
}

// valid reports if the combination of container kinds is allowed.
func (c Container) valid() bool {
	n := bits.OnesCount8(uint8(c))
	switch {
	case n <= 1:
		return true
	case c.Has(ContainerList):
		return false
	case c.Has(ContainerGraph) && c.Any(ContainerID|ContainerIndex):
		rest := c &^ (ContainerGraph | ContainerSet)
		return rest == ContainerID || rest == ContainerIndex
	case c.Has(ContainerSet):
		return bits.OnesCount8(uint8(c&^ContainerSet)) == 1
	default:
		return false
	}
}
