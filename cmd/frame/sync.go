// ABOUTME: CLI commands for Charm-based sync.
// ABOUTME: Supports link, unlink, status, now, repair, reset, and wipe for the charm backend.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/charm/kv"
	"github.com/spf13/cobra"

	"github.com/harperreed/frame/internal/charm"
	"github.com/harperreed/frame/internal/storage"
)

var (
	syncRepairForce bool
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync the board across devices",
	Long: `Sync the board across devices using Charm Cloud.

Only the charm backend syncs. Switch to it with 'frame config set backend charm'
or copy an existing board over with 'frame migrate --to charm'.

Your data is E2E encrypted with your SSH key before upload.

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show sync status and account info
  now         Pull and push changes immediately
  repair      Repair database corruption (checkpoints WAL, removes SHM, vacuums)
  reset       Reset local data and restore from cloud (destructive)
  wipe        Delete cloud and local data (destructive)

Data syncs automatically after each change.`,
}

// charmBackend returns the open backend when it is the charm one.
func charmBackend() (*storage.Charm, error) {
	c, ok := backend.(*storage.Charm)
	if !ok {
		return nil, fmt.Errorf("sync needs the charm backend (current: %s)", backend.Name())
	}
	return c, nil
}

func runCharmCLI(cmd *cobra.Command, arg string) error {
	charmCmd := exec.Command("charm", arg)
	charmCmd.Stdin = os.Stdin
	charmCmd.Stdout = cmd.OutOrStdout()
	charmCmd.Stderr = cmd.ErrOrStderr()
	return charmCmd.Run()
}

// confirm reads one word from the command's input and compares it to want.
func confirm(cmd *cobra.Command, prompt string, want ...string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	var answer string
	_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
	for _, w := range want {
		if answer == w {
			return true
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
	return false
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Long: `Link this device to your Charm account.

If you don't have a Charm account, one will be created using your SSH key.`,
	Annotations: skipStore(),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharmCLI(cmd, "link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}
		green.Fprintln(cmd.OutOrStdout(), "\n✓ Device linked to Charm")
		fmt.Fprintln(cmd.OutOrStdout(), "Run 'frame sync now' to pull your board.")
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Long: `Disconnect this device from Charm.

This does not delete your local board. You can link again later with 'frame sync link'.`,
	Annotations: skipStore(),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharmCLI(cmd, "unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		green.Fprintln(cmd.OutOrStdout(), "✓ Device unlinked from Charm")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		c, err := charmBackend()
		if err != nil {
			yellow.Fprintln(out, err.Error())
			return nil
		}

		id, err := c.Client().ID()
		if err != nil {
			yellow.Fprintln(out, "Not linked to Charm")
			fmt.Fprintln(out, "\nRun 'frame sync link' to connect to Charm.")
			return nil
		}

		fmt.Fprintln(out, "Charm ID:", id)
		fmt.Fprintln(out, "Server:", os.Getenv("CHARM_HOST"))
		fmt.Fprintln(out, "Database:", cfg.GetCharmDB())
		if c.Client().IsReadOnly() {
			yellow.Fprintln(out, "Read-only: another frame process holds the database")
		}
		fmt.Fprintln(out)
		green.Fprintln(out, "✓ Connected to Charm")
		fmt.Fprintf(out, "  Metrics: %d\n", len(store.Metrics()))
		fmt.Fprintf(out, "  Days: %d\n", len(store.Days()))
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, ok := backend.(storage.Syncer)
		if !ok {
			return fmt.Errorf("the %s backend does not sync", backend.Name())
		}
		if err := s.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		green.Fprintln(cmd.OutOrStdout(), "✓ Sync complete")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all cloud and local data",
	Long: `Delete all cloud backups and local data for the charm database.

This is a DESTRUCTIVE operation. ALL synced data will be permanently deleted.`,
	Annotations: skipStore(),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "This will PERMANENTLY DELETE all cloud backups and local board data.")
		if !confirm(cmd, "Type 'wipe' to confirm: ", "wipe") {
			return nil
		}

		if err := charm.EnsureHost(); err != nil {
			return err
		}
		result, err := kv.Wipe(cfg.GetCharmDB())
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		green.Fprintln(out, "✓ Data wiped successfully")
		fmt.Fprintf(out, "  Cloud backups deleted: %d\n", result.CloudBackupsDeleted)
		fmt.Fprintf(out, "  Local files deleted: %d\n", result.LocalFilesDeleted)
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair database corruption",
	Long: `Repair database corruption by checkpointing WAL, removing SHM files, checking integrity, and vacuuming.

Use this when you encounter database lock errors or corruption.
Run with --force to attempt recovery even if integrity checks fail.`,
	Annotations: skipStore(),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Repairing frame database...")
		if err := charm.EnsureHost(); err != nil {
			return err
		}
		result, err := kv.Repair(cfg.GetCharmDB(), syncRepairForce)

		if result.WalCheckpointed {
			green.Fprintln(out, "  ✓ WAL checkpointed")
		}
		if result.ShmRemoved {
			green.Fprintln(out, "  ✓ SHM file removed")
		}
		if result.IntegrityOK {
			green.Fprintln(out, "  ✓ Integrity check passed")
		} else {
			yellow.Fprintln(out, "  ✗ Integrity check failed")
		}
		if result.Vacuumed {
			green.Fprintln(out, "  ✓ Database vacuumed")
		}

		if err != nil {
			if !syncRepairForce {
				yellow.Fprintln(out, "\nRun with --force to attempt recovery.")
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		green.Fprintln(out, "\n✓ Repair complete")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local data and restore from cloud",
	Long: `Delete all local charm data and restore from Charm Cloud.

Use this to fix sync conflicts or to reset a device to the cloud state.`,
	Annotations: skipStore(),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "This will DELETE all local board data and restore from cloud.")
		if !confirm(cmd, "Continue? [y/N]: ", "y", "Y") {
			return nil
		}
		if err := charm.EnsureHost(); err != nil {
			return err
		}
		if err := kv.Reset(cfg.GetCharmDB()); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		green.Fprintln(cmd.OutOrStdout(), "✓ Local data reset and restored from cloud")
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncLinkCmd, syncUnlinkCmd, syncStatusCmd, syncNowCmd, syncRepairCmd, syncResetCmd, syncWipeCmd)
	syncRepairCmd.Flags().BoolVar(&syncRepairForce, "force", false, "Attempt recovery even if integrity checks fail")
	rootCmd.AddCommand(syncCmd)
}
