// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package batch

import "gitlab.com/tozd/go/errors"

var (
	// ErrUnsupportedCategory is returned by New for processors whose
	// descriptor names a category this executor set cannot run, including
	// CategoryUnknown and descriptors that promise a category their type
	// does not implement.
	ErrUnsupportedCategory = errors.New("unsupported processor category")

	// ErrInvalidOutputTarget is returned synchronously by Run when the
	// output target has the wrong shape for the category: individual runs
	// need a directory, adjoint runs need a file path.
	ErrInvalidOutputTarget = errors.New("invalid output target")
)

// 💥 GatherError wraps a failure of the adjoint combine step so callers
// can tell "a file failed" (a Result) apart from "the whole aggregate is
// missing" (this error on the DoneEvent).
type GatherError struct {
	Err error
}

func (e *GatherError) Error() string {
	return "gathering results: " + e.Err.Error()
}

func (e *GatherError) Unwrap() error {
	return e.Err
}
