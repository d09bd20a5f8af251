package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/bobbinhq/bobbin/internal/watch"
	"github.com/spf13/cobra"
)

// watchCmd groups process-management helpers around the watch daemon
// started by `bobbin index --watch`. It only manages the PID file;
// starting and stopping the daemon process itself is the operator's job
// (a shell backgrounding `bobbin index --watch &`, a supervisor, systemd).
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Manage the background watch daemon's PID file",
}

var watchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a watch daemon's PID file points at a live process",
	RunE:  runWatchStatus,
}

var watchStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Signal the watch daemon recorded in the PID file to exit",
	RunE:  runWatchStop,
}

func init() {
	watchCmd.AddCommand(watchStatusCmd)
	watchCmd.AddCommand(watchStopCmd)
	rootCmd.AddCommand(watchCmd)
}

func pidFilePath() (string, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return filepath.Join(root, ".bobbin", "watch.pid"), nil
}

func runWatchStatus(cmd *cobra.Command, args []string) error {
	path, err := pidFilePath()
	if err != nil {
		return err
	}

	pid, err := watch.ReadPIDFile(path)
	if err != nil {
		return printResult(map[string]any{"running": false}, func() { fmt.Println("not running") })
	}

	running := processAlive(pid)
	return printResult(map[string]any{"running": running, "pid": pid}, func() {
		if running {
			fmt.Printf("running, pid %d\n", pid)
		} else {
			fmt.Printf("stale pid file (pid %d not running)\n", pid)
		}
	})
}

func runWatchStop(cmd *cobra.Command, args []string) error {
	path, err := pidFilePath()
	if err != nil {
		return err
	}

	pid, err := watch.ReadPIDFile(path)
	if err != nil {
		return fmt.Errorf("watch stop: %w", err)
	}

	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		return fmt.Errorf("watch stop: signal pid %d: %w", pid, err)
	}

	return watch.RemovePIDFile(path)
}

func processAlive(pid int) bool {
	return syscall.Kill(pid, syscall.Signal(0)) == nil
}
