// Copyright 2025 Poiesic Systems
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

package source

import "errors"

var (
	// ErrDataLoadFailure is wrapped by every error a Loader returns.
	ErrDataLoadFailure = errors.New("data load failure")

	// ErrUnexpectedStatus indicates the server answered with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrMalformedPayload indicates the payload is not an array of country objects.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrURLRequired is returned when an HTTP loader is created without a URL.
	ErrURLRequired = errors.New("source URL required")

	// ErrPathRequired is returned when a file loader is created without a path.
	ErrPathRequired = errors.New("source path required")
)
