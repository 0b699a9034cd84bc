// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package tool

import (
	"fmt"
	"strings"
)

// ListFlag collects comma-separated values. The flag may be repeated,
// values of all occurrences are accumulated: -disable=2.3,19.1 -disable=15.4.
type ListFlag []string

func (list *ListFlag) String() string {
	return fmt.Sprint(*list)
}

func (list *ListFlag) Set(value string) error {
	for _, elem := range strings.Split(value, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			return fmt.Errorf("empty element in list %q", value)
		}
		*list = append(*list, elem)
	}
	return nil
}
