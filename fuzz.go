// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

// FuzzLoad exercises LoadBytes against arbitrary input, for use with
// go-fuzz-style harnesses. It returns 1 when data parsed as a package
// (compressed or not), 0 otherwise; it never panics on malformed input
// since every table reader returns an *Error instead.
func FuzzLoad(data []byte) int {
	pkg, err := LoadBytes(data, nil)
	if err != nil {
		return 0
	}
	defer pkg.Close()
	return 1
}
