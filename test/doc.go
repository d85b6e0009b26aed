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

// Package test bundles functions that remove common boilerplate from tests.
//
// The Expect functions report a failure and allow the test to continue. The
// Demand functions stop the test immediately and should be used when later
// parts of the test depend on the value being correct.
//
// It is worth describing how the success/failure functions handle the nil
// type because it is not obvious. The nil type is considered a success and
// consequently will cause ExpectFailure to fail and ExpectSuccess to succeed.
// Because of how errors usually work (nil to indicate no error) we need to
// interpret nil in this way.
//
// RingWriter and CompareWriter implement io.Writer and should be used to
// capture output for comparison.
package test
