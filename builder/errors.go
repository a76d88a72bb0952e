// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package builder

import "github.com/pkg/errors"

// Sentinel error kinds a caller can match with errors.Is. The grammar
// errors ParseArgs returns wrap one of these with the offending token via
// github.com/pkg/errors, so both Is-matching and a human-readable
// message with context survive. A missing option value, an unrecognized
// option and an invalid glob pattern are reported without a sentinel.
var (
	ErrUnknownScope                 = errors.New("unknown scope")
	ErrPairMissingEquals            = errors.New("pair missing '='")
	ErrReplacePrefixMissingEquals   = errors.New("replace-prefix missing '='")
	ErrTransformWithoutRekeyContext = errors.New("transform option used without an open rekey context")
	ErrTemplateCompileFailed        = errors.New("template compile failed")
	ErrTemplateTypeHintInvalid      = errors.New("template type hint invalid")
)
