/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package confloader

import (
	"errors"
	"os"
	"path/filepath"
)

var errNotRegular = errors.New("not a regular file")

// ResolveSource resolves source against the directory holding confFilePath
// and returns the absolute result. The file must exist and be a regular file;
// symlinks are followed for that check but kept in the returned path.
func ResolveSource(confFilePath, source string) (string, error) {
	p := source
	if !filepath.IsAbs(p) {
		p = filepath.Join(filepath.Dir(confFilePath), p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", &Error{Kind: ErrFileNotFound, Key: keySource, Path: p, Cause: err}
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return "", &Error{Kind: ErrFileNotFound, Key: keySource, Path: abs, Cause: err}
	}
	if !fi.Mode().IsRegular() {
		return "", &Error{Kind: ErrFileNotFound, Key: keySource, Path: abs, Cause: errNotRegular}
	}
	return abs, nil
}
