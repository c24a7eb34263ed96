// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/lmmspkg/lmms-pkg/cmd/lmmspkg"

func main() {
	cmd.Execute()
}
