package bwt

import (
	"bufio"
	"io"
)

// MaxRunLength is the longest run a single ByteRun may describe. Longer runs
// are split.
const MaxRunLength = 256

// ByteRun represents a single run of a particular byte value.
type ByteRun struct {
	// Byte is the byte value for this run.
	Byte byte
	// RunLength gives the number of times the byte occurs in the run (not the
	// number of times it's repeated). Valid runs have 1 <= RunLength <= MaxRunLength.
	RunLength int
}

// RunLengthGrouper splits a byte stream into runs of at most MaxRunLength.
type RunLengthGrouper struct {
	rd *bufio.Reader
}

func NewRunLengthGrouper(rd io.Reader) RunLengthGrouper {
	return RunLengthGrouper{rd: bufio.NewReader(rd)}
}

// GetNextRun returns the next run in the stream, or io.EOF once the stream is
// exhausted.
func (grouper RunLengthGrouper) GetNextRun() (ByteRun, error) {
	firstByte, err := grouper.rd.ReadByte()
	if err != nil {
		return ByteRun{}, err
	}

	runLength := 1
	for runLength < MaxRunLength {
		currentByte, err := grouper.rd.ReadByte()
		if err != nil {
			if err == io.EOF {
				break
			}
			return ByteRun{}, err
		}
		if currentByte != firstByte {
			// Hit a different byte, back up and return.
			_ = grouper.rd.UnreadByte()
			break
		}
		runLength++
	}
	return ByteRun{Byte: firstByte, RunLength: runLength}, nil
}

// GroupRuns reads every run from rd.
func GroupRuns(rd io.Reader) ([]ByteRun, error) {
	grouper := NewRunLengthGrouper(rd)
	var runs []ByteRun
	for {
		run, err := grouper.GetNextRun()
		if err == io.EOF {
			return runs, nil
		}
		if err != nil {
			return runs, err
		}
		runs = append(runs, run)
	}
}
