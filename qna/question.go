package qna

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// DefaultLabels is the wording used when none is configured
	DefaultLabels = Labels{
		Preamble: "Here you go, solve the question: ",
		Prompt:   "Please sum the numbers ",
	}

	// ErrNoNumbers is returned when a text does not carry three numbers
	ErrNoNumbers = errors.New("qna: no numbers found in question")

	// ErrEmptySum is returned by ParseSum for a blank answer
	ErrEmptySum = errors.New("qna: empty sum")

	numbersPattern = regexp.MustCompile(`([a-zA-Z, _:]*)([0-9]+),([0-9]+),([0-9]+)`)
)

// Labels are the two parts of the sentence in front of the numbers
type Labels struct {
	Preamble string
	Prompt   string
}

// Question issued to a player
type Question struct {
	ID      string
	Numbers [3]int
	Text    string
}

// Sum of the question numbers
func (q Question) Sum() int {
	return Sum(q.Numbers)
}

// Format renders the question sentence, e.g.
// "Here you go, solve the question: Please sum the numbers 9,5,3"
func Format(l Labels, n [3]int) string {
	return fmt.Sprintf("%s%s%d,%d,%d", l.Preamble, l.Prompt, n[0], n[1], n[2])
}

// ParseNumbers extracts the three numbers from a question text.
// When the text holds more than one group the last one is used.
func ParseNumbers(text string) ([3]int, error) {
	var n [3]int

	matches := numbersPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return n, ErrNoNumbers
	}
	last := matches[len(matches)-1]
	for i := range n {
		v, err := strconv.Atoi(last[i+2])
		if err != nil {
			return n, errors.Wrapf(err, "qna: number %d", i+1)
		}
		n[i] = v
	}

	return n, nil
}

// Sum adds the numbers
func Sum(n [3]int) int {
	return n[0] + n[1] + n[2]
}

// ParseSum reads a proposed answer. Surrounding spaces, a leading plus sign
// and leading zeros are accepted.
func ParseSum(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptySum
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "qna: invalid sum %q", s)
	}

	return v, nil
}
