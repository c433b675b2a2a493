// Command presence logs an mmWave presence radar to daily CSV files.
//
// It reads ASCII frames from the sensor over a serial link, derives a
// debounced presence state from the noisy raw readings, appends every
// observation to the CSV file for the current UTC day, and prints
// ARRIVED/LEFT transitions. The logger reconnects after transient serial
// failures and is designed to run unattended for days.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/banshee-data/presence.report/internal/db"
	"github.com/banshee-data/presence.report/internal/sensor"
	"github.com/banshee-data/presence.report/internal/session"
	"github.com/banshee-data/presence.report/internal/timeutil"
	"github.com/banshee-data/presence.report/internal/version"
)

var (
	devMode        = flag.Bool("dev", false, "Run without hardware, replaying canned frames")
	port           = flag.String("port", "/dev/cu.usbserial-2110", "Serial port of the presence radar")
	baud           = flag.Int("baud", 115200, "Serial baud rate")
	logDir         = flag.String("log-dir", "", "Directory for daily CSV logs (default ~/.presence.report/mmwave)")
	dbPath         = flag.String("db", "", "Optional sqlite database mirroring the observations")
	holdTime       = flag.Duration("hold", 10*time.Second, "Continuous time a new state must hold before it is accepted")
	readTimeout    = flag.Duration("read-timeout", 2*time.Second, "Per-read serial timeout")
	reconnectDelay = flag.Duration("reconnect-delay", 3*time.Second, "Delay before reconnecting after a serial failure")
	showVersion    = flag.Bool("version", false, "Print version and exit")
)

// replayFrames feeds dev mode: a present/absent cycle with the module banner
// noise a real SEN0395 emits between reports.
var replayFrames = []string{
	"$JYBSS,1, , , *",
	"$JYBSS,1, , , *",
	"$JYBSS,0, , , *",
	"leapMMW:/>",
	"$JYBSS,0, , , *",
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	dir := *logDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("failed to resolve home directory: %v", err)
		}
		dir = filepath.Join(home, ".presence.report", "mmwave")
	}

	cfg := session.Config{
		DevicePath:     *port,
		PortOptions:    sensor.PortOptions{BaudRate: *baud},
		LogDir:         dir,
		HoldTime:       *holdTime,
		ReadTimeout:    *readTimeout,
		ReconnectDelay: *reconnectDelay,
	}

	deps := session.Deps{}
	if *devMode {
		deps.Factory = sensor.ReplayFactory{
			Frames:   replayFrames,
			Interval: 500 * time.Millisecond,
			Clock:    timeutil.RealClock{},
		}
	}

	if *dbPath != "" {
		store, err := db.New(*dbPath)
		if err != nil {
			log.Fatalf("failed to open observation database: %v", err)
		}
		defer store.Close()
		deps.Store = store
	}

	ctrl, err := session.New(cfg, deps)
	if err != nil {
		log.Fatalf("failed to create session: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ctrl.Run(ctx); err != nil {
		log.Fatalf("session failed: %v", err)
	}
}
