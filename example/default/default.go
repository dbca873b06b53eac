package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/grasp"
	"github.com/oomph-ac/grasp/device/null"
	"github.com/oomph-ac/grasp/grab"
	"github.com/oomph-ac/grasp/hand"
	"github.com/oomph-ac/grasp/scene"
	"github.com/oomph-ac/grasp/settings"
	"github.com/oomph-ac/grasp/simulation"
	"github.com/oomph-ac/grasp/worker"
	"github.com/sirupsen/logrus"
)

// The following program runs a rig against a scripted pair of hands: the right hand picks up the revolver,
// fires it a few times and throws it, then the left hand toggles the crate in and out of hand.
func main() {
	dir := "."
	if len(os.Args) > 1 {
		if os.Args[1] == "init" {
			if err := settings.SaveDefault(settings.FileName + ".yaml"); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			return
		}
		dir = os.Args[1]
	}

	conf, err := settings.Load(dir)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	log.Level, _ = conf.Level()

	if conf.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: conf.Sentry.DSN}); err != nil {
			log.Errorf("unable to initialize sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	if os.Getenv("GRASP_STATSVIEW") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(conf.StatsView.Addr))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	sc := scene.Default()
	if conf.Scene != "" {
		if sc, err = scene.Load(conf.Scene); err != nil {
			log.Fatal(err)
		}
	}

	policy, _ := conf.HapticPolicy()
	backend := null.New()
	world := simulation.NewWorld(simulation.DefaultArea())
	rig, err := grasp.New(log, backend, grasp.Options{
		HapticPolicy:   policy,
		RumbleStrength: conf.Haptics.Strength,
		Physics:        world,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer rig.Close()

	for _, e := range sc.Grabbables {
		if conf.Kick.TimeScaled {
			e.Kick.TimeScaled = true
		}
		body := world.NewBody(e.Position, e.Orientation())
		g, err := rig.Spawn(e.Config, body, body, body)
		if err != nil {
			log.Fatal(err)
		}
		g.SetHandler(eventLogger{log: log})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("running %d grabbable(s) at %d ticks per second", len(sc.Grabbables), conf.TickRate)
	s := &script{backend: backend}
	err = worker.Run(ctx, conf.TickRate, func(dt time.Duration) {
		s.step(rig.Now())
		rig.Tick(dt)
		fire(rig)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error(err)
	}
	log.Info("stopped")
}

// fire kicks and rumbles every held grabbable whose trigger was pressed this tick.
func fire(rig *grasp.Rig) {
	for _, g := range rig.Grabbables() {
		ctrl := g.Controller()
		h, ok := ctrl.ActiveController()
		if !ok || !ctrl.TriggerPressed(h) {
			continue
		}
		g.Kick(25)
		ctrl.RumblePattern(2, 30*time.Millisecond, 20*time.Millisecond)
	}
}

// eventLogger logs the grabs, releases and kicks of a grabbable.
type eventLogger struct {
	log *logrus.Logger
}

func (l eventLogger) HandleGrab(g *grab.Grabbable, h hand.Hand) {
	l.log.WithFields(logrus.Fields{"grabbable": g.Name(), "hand": h}).Info("picked up")
}

func (l eventLogger) HandleRelease(g *grab.Grabbable, h hand.Hand, v, _ mgl64.Vec3) {
	l.log.WithFields(logrus.Fields{"grabbable": g.Name(), "hand": h, "speed": v.Len()}).Info("let go")
}

func (l eventLogger) HandleKick(g *grab.Grabbable, force float64) {
	l.log.WithFields(logrus.Fields{"grabbable": g.Name(), "force": force}).Info("kicked")
}
