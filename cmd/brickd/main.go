// Command brickd is the host-side daemon bridging the on-board SPI stack
// bus to the rest of the system. Process supervision, PID-file handling,
// the TCP client listener, the USB and RS485 transports, and log sinks
// other than stderr are external collaborators, named here only by the
// interfaces they would plug into (router.Stack and router.OnResponse).
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/brickd/brickd/brick"
	"github.com/brickd/brickd/bridge"
	"github.com/brickd/brickd/conn/gpio"
	"github.com/brickd/brickd/conn/gpio/gpioreg"
	"github.com/brickd/brickd/conn/spi"
	"github.com/brickd/brickd/conn/spi/spireg"
	"github.com/brickd/brickd/host"
	"github.com/brickd/brickd/httpapi"
	"github.com/brickd/brickd/metrics"
	"github.com/brickd/brickd/router"
	"github.com/brickd/brickd/spiengine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("brickd: fatal")
	}
}

func run() error {
	var (
		spiBus      = flag.Int("spi-bus", 0, "SPI bus number, e.g. 0 for /dev/spidev0.x")
		spiCS       = flag.Int("spi-cs", 0, "SPI chip-select number, e.g. 0 for /dev/spidevx.0")
		address     = flag.Int("address", 0, "stack address this process runs as; only 0 (master) is supported")
		selectGPIOs = flag.String("select-gpios", "", "comma-separated sysfs GPIO numbers, one per stack slave select line, in stack-address order")
		httpAddr    = flag.String("http", ":8080", "address to serve /healthz, /slaves and /metrics on")
		verbose     = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// The source aborts here with "only master mode supported" when
	// configured as a slave address. It is unclear whether that was a
	// deliberate restriction or a placeholder for unfinished slave-mode
	// support; preserved literally rather than guessed at.
	if *address != 0 {
		return fmt.Errorf("brickd: only master mode supported, got address %d", *address)
	}

	lines, err := parseGPIOList(*selectGPIOs)
	if err != nil {
		return fmt.Errorf("brickd: -select-gpios: %v", err)
	}
	if len(lines) == 0 {
		return fmt.Errorf("brickd: -select-gpios: need at least one slave select line")
	}

	portName, err := host.Init(host.Config{
		SPIBus:        *spiBus,
		SPIChipSelect: *spiCS,
		SelectLines:   lines,
	})
	if err != nil {
		return err
	}

	port, err := spireg.Open(portName)
	if err != nil {
		return fmt.Errorf("brickd: opening %s: %v", portName, err)
	}
	conn, err := port.Connect(8*1000*1000, spi.Mode2|spi.HalfDuplex, 8)
	if err != nil {
		port.Close()
		return fmt.Errorf("brickd: connecting %s: %v", portName, err)
	}

	pins := make([]gpio.PinOut, len(lines))
	for i, g := range lines {
		pinName := fmt.Sprintf("CS%d", i)
		p := gpioreg.ByName(pinName)
		if p == nil {
			port.Close()
			return fmt.Errorf("brickd: select line %d (gpio %d) was not registered", i, g)
		}
		pins[i] = p
	}

	br, err := bridge.New()
	if err != nil {
		port.Close()
		return err
	}

	reg := prometheus.DefaultRegisterer
	met := metrics.NewEngine(reg)

	log := logrus.StandardLogger()
	engine, err := spiengine.New(conn, pins, br, met, log)
	if err != nil {
		br.Close()
		port.Close()
		return err
	}

	start := time.Now()
	engine.Enumerate()
	met.EnumerationTime.Observe(time.Since(start).Seconds())

	rt := router.New()
	rt.Register(engine)
	rt.OnResponse = func(p brick.Packet) {
		// The TCP client listener is an external collaborator; absent
		// one, inbound traffic is just logged so the bridge is never
		// starved waiting for a drain.
		log.WithField("uid", p.UID).WithField("function", p.Function).Debug("brickd: response ready for dispatch")
	}

	mux := httpapi.NewRouter(engine)
	httpSrv := &http.Server{Addr: *httpAddr, Handler: mux}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("brickd: http server stopped")
		}
	}()

	stopSPI := make(chan struct{})
	spiDone := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		engine.Run(stopSPI)
		close(spiDone)
	}()

	eventStop := make(chan struct{})
	eventDone := make(chan struct{})
	go func() {
		for {
			select {
			case <-eventStop:
				close(eventDone)
				return
			default:
			}
			if err := br.Drain(rt.DispatchInbound); err != nil {
				log.WithError(err).Error("brickd: bridge drain")
				close(eventDone)
				return
			}
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	// Unwind in reverse of initialization so no thread ever observes a
	// closed fd out from under it: stop the SPI thread first, then the
	// event loop, then the bridge, and only then the SPI port itself.
	close(stopSPI)
	<-spiDone
	close(eventStop)
	_ = httpSrv.Close()
	br.Close()
	<-eventDone
	return port.Close()
}

func parseGPIOList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var out []int
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			n, err := parseInt(s[start:i])
			if err != nil {
				return nil, err
			}
			out = append(out, n)
			start = i + 1
		}
	}
	return out, nil
}

func parseInt(s string) (int, error) {
	var n int
	if len(s) == 0 {
		return 0, fmt.Errorf("empty GPIO number")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid GPIO number %q", s)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
