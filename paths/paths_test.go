// This file is part of arm7core.
//
// arm7core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// arm7core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with arm7core.  If not, see <https://www.gnu.org/licenses/>.

package paths_test

import (
	"os"
	"regexp"
	"testing"

	"github.com/jetsetilly/arm7core/paths"
	"github.com/jetsetilly/arm7core/test"
)

func TestPaths(t *testing.T) {
	// run test in a temporary directory so that the config directory is
	// created there
	wd, err := os.Getwd()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	pth, err := paths.ResourcePath("foo/bar", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".arm7core/foo/bar/baz")

	pth, err = paths.ResourcePath("foo/bar", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".arm7core/foo/bar")

	pth, err = paths.ResourcePath("", "baz")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".arm7core/baz")

	_, err = os.Stat(".arm7core/foo/bar")
	test.ExpectSuccess(t, err)
}

func TestUniqueFilename(t *testing.T) {
	fn := paths.UniqueFilename("trace", "roms/test.bin")
	test.ExpectSuccess(t, regexp.MustCompile(`^trace_test_\d{8}_\d{6}$`).MatchString(fn))

	fn = paths.UniqueFilename("trace", "")
	test.ExpectSuccess(t, regexp.MustCompile(`^trace_\d{8}_\d{6}$`).MatchString(fn))
}
