package session

import "bytes"

// ScanLines is a bufio.SplitFunc that ends a line at either '\r' or '\n'.
// The player terminates lines with CRLF and the receiver with a bare CR,
// so a CRLF pair yields one empty token which the read loop skips.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// boundedLines wraps ScanLines so a line longer than limit is skipped up to
// its terminator instead of failing the scanner with bufio.ErrTooLong.
// onDrop is called once per skipped line.
func boundedLines(limit int, onDrop func()) func(data []byte, atEOF bool) (int, []byte, error) {
	skipping := false
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if skipping {
			i := bytes.IndexAny(data, "\r\n")
			if i < 0 {
				if atEOF {
					skipping = false
				}
				return len(data), nil, nil
			}
			skipping = false
			return i + 1, nil, nil
		}

		advance, token, err := ScanLines(data, atEOF)
		if advance == 0 && token == nil && err == nil && len(data) >= limit {
			skipping = true
			onDrop()
			return len(data), nil, nil
		}
		return advance, token, err
	}
}
