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

// Package paths contains functions to prepare paths to arm7core resources.
//
// The ResourcePath() function modifies the supplied resource string such that
// it is prepended with the appropriate config directory. For example, the
// following will return the path to the preferences file.
//
//	d, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
//
// The policy of ResourcePath() depends on the build. A development build uses
// the ".arm7core" directory in the current directory. A release build (the
// "release" build tag) uses the user's config directory, as returned by
// os.UserConfigDir(). In both cases the directory is created if necessary.
//
// In the release case, on a modern Linux system, the path returned will be:
//
//	/home/user/.config/arm7core/preferences.toml
package paths
