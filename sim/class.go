package sim

import (
	"errors"
	"fmt"
)

// ErrUnknownClass is returned when a QoS label does not name one of the three classes.
var ErrUnknownClass = errors.New("unknown QoS class")

// QoSClass identifies one of the three traffic classes.
// The string value is the class letter; Label returns the dataset name.
type QoSClass string

const (
	ClassA QoSClass = "A" // latency-critical (uRLLC), highest priority
	ClassB QoSClass = "B" // broadband (eMBB)
	ClassC QoSClass = "C" // massive low-rate (mMTC), lowest priority
)

// Classes lists all classes in strict priority order (highest first).
// The Processor drains queues in exactly this order.
var Classes = []QoSClass{ClassA, ClassB, ClassC}

var classLabels = map[QoSClass]string{
	ClassA: "uRLLC",
	ClassB: "eMBB",
	ClassC: "mMTC",
}

var labelClasses = map[string]QoSClass{
	"uRLLC": ClassA,
	"eMBB":  ClassB,
	"mMTC":  ClassC,
}

// ParseQoSClass maps a dataset label (uRLLC, eMBB, mMTC) or a class letter (A, B, C)
// to its QoSClass.
func ParseQoSClass(s string) (QoSClass, error) {
	if c, ok := labelClasses[s]; ok {
		return c, nil
	}
	if _, ok := classLabels[QoSClass(s)]; ok {
		return QoSClass(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownClass, s)
}

// Label returns the dataset name of the class (uRLLC, eMBB, mMTC).
func (c QoSClass) Label() string {
	if l, ok := classLabels[c]; ok {
		return l
	}
	return string(c)
}

// Rank returns the scheduling rank of the class: 0 for A, 1 for B, 2 for C.
// Unknown classes rank after C.
func (c QoSClass) Rank() int {
	switch c {
	case ClassA:
		return 0
	case ClassB:
		return 1
	case ClassC:
		return 2
	default:
		return len(Classes)
	}
}

func (c QoSClass) String() string {
	return string(c)
}
