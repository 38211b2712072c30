// Copyright 2025 Jurisnorm Authors
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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidRequest indicates a NormalizationRequest failed validation.
	ErrInvalidRequest = errors.New("invalid normalization request")

	// ErrEmptyECLI indicates the ECLI field is empty.
	ErrEmptyECLI = errors.New("ECLI cannot be empty")

	// ErrInvalidDate indicates a decision date is in the future.
	ErrInvalidDate = errors.New("date cannot be in the future")

	// ErrEmptyField indicates the request field name is empty.
	ErrEmptyField = errors.New("field cannot be empty")

	// ErrEmptyFromValue indicates the request source value is empty.
	ErrEmptyFromValue = errors.New("fromValue cannot be empty")

	// ErrEmptyToValue indicates the request target value is empty.
	ErrEmptyToValue = errors.New("toValue cannot be empty")

	// ErrUnknownField indicates a field name outside the configured registry.
	ErrUnknownField = errors.New("unknown field")
)
