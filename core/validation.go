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

import (
	"fmt"
	"time"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - ECLI must not be empty
//   - Date must not be in the future
//
// NOT validated:
//   - Fields (an empty map is a legal, if useless, document)
//   - ID (0 is valid; it is derived from the ECLI on insert)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.ECLI == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyECLI)
	}

	if !IsValidDate(doc.Date) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidDate)
	}

	return nil
}

// ValidateNormalizationRequest validates an operator merge command against
// the field registry. Validation happens before any lookup or mutation.
//
// Validation rules:
//   - Field, FromValue and ToValue must all be non-empty
//   - Field must name a known field of the registry
func ValidateNormalizationRequest(req *NormalizationRequest, fields []FieldInfo) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	if req.Field == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyField)
	}

	if req.FromValue == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyFromValue)
	}

	if req.ToValue == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyToValue)
	}

	if !KnownField(fields, req.Field) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidRequest, ErrUnknownField, req.Field)
	}

	return nil
}

// IsValidDate checks if a decision date is valid (not in the future).
func IsValidDate(ts time.Time) bool {
	return !ts.After(time.Now())
}
