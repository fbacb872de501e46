// Copyright 2017 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// enumValue is a pflag.Value for enumerations that print and parse their
// own names.
type enumValue[T fmt.Stringer] struct {
	value    *T
	parse    func(string) (T, error)
	typename string
}

func NewEnumValue[T fmt.Stringer](def T, p *T, parse func(string) (T, error), typename string) pflag.Value {
	ev := &enumValue[T]{
		value:    p,
		parse:    parse,
		typename: typename,
	}
	*ev.value = def

	return ev
}

func (e *enumValue[T]) Set(val string) error {
	v, err := e.parse(strings.ToLower(val))
	if err != nil {
		return err
	}

	*e.value = v

	return nil
}

func (e *enumValue[T]) Type() string {
	return e.typename
}

func (e *enumValue[T]) String() string {
	if e.value == nil {
		return ""
	}

	return strings.ToLower((*e.value).String())
}
