// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bufio"
	"io"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/authcore/internal/credential"
)

// NewHashPasswordCmd creates the hash-password command.
func NewHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password read from stdin",
		Long: `Read one line from stdin, check it against the password policy and
print its argon2id encoding using the configured cost parameters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}
			raw, err := readLine(bufio.NewReader(cmd.InOrStdin()), "password")
			if err != nil {
				return err
			}
			password, err := credential.ParsePassword(raw)
			if err != nil {
				return err
			}
			hash, err := credential.NewPasswordHash(password, credential.NewArgon2idHasher(cfg.Argon2Params()))
			if err != nil {
				return err
			}
			cmd.Println(hash.Encoded())
			return nil
		},
	}
}

// readLine reads one line from r without its line terminator.
func readLine(r *bufio.Reader, what string) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", oops.Code("INPUT_MISSING").With("input", what).Wrapf(err, "read %s from stdin", what)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
