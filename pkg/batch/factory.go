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

import (
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/processor"
)

// 🏭 New builds the executor matching the processor's declared category.
//
// The mapping is exhaustive over the closed category set: individual and
// adjoint get their executors, everything else is rejected with
// ErrUnsupportedCategory. That includes a descriptor promising a
// category its type does not implement.
func New(proc processor.Processor) (Executor, error) {
	desc := proc.Describe()

	switch desc.Category {
	case processor.CategoryIndividual:
		ind, ok := proc.(processor.Individual)
		if !ok {
			return nil, errors.Errorf("%w: %q declares individual but does not implement it", ErrUnsupportedCategory, desc.Name)
		}
		return &individualExecutor{proc: ind, desc: desc}, nil

	case processor.CategoryAdjoint:
		adj, ok := proc.(processor.Adjoint)
		if !ok {
			return nil, errors.Errorf("%w: %q declares adjoint but does not implement it", ErrUnsupportedCategory, desc.Name)
		}
		return &adjointExecutor{proc: adj, desc: desc}, nil

	default:
		return nil, errors.Errorf("%w: %q is %s", ErrUnsupportedCategory, desc.Name, desc.Category)
	}
}
