package daemon

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/naucourse/chooser/cmd/withdrawd/config"
	"github.com/naucourse/chooser/internal/course"
	"github.com/naucourse/chooser/internal/withdrawal"
	"github.com/naucourse/chooser/internal/workerpool"
)

func TestBindAPIListenerFallback(t *testing.T) {
	saved := config.Global
	defer func() { config.Global = saved }()

	// Occupy a port so the default bind has to move on
	busy, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	defer busy.Close()
	busyPort := busy.Addr().(*net.TCPAddr).Port

	config.Global.APIAddr = "127.0.0.1"
	config.Global.APIPort = busyPort
	config.Global.SetExplicitlySet(config.APIAddrField, false)

	listener, err := bindAPIListener()
	if err != nil {
		t.Fatalf("bindAPIListener() error = %v", err)
	}
	defer listener.Close()

	if config.Global.APIPort == busyPort {
		t.Errorf("bindAPIListener() kept busy port %d", busyPort)
	}
	_, port, _ := net.SplitHostPort(listener.Addr().String())
	if port != strconv.Itoa(config.Global.APIPort) {
		t.Errorf("listener port %s does not match APIPort %d", port, config.Global.APIPort)
	}
}

func TestBindAPIListenerExplicitBusy(t *testing.T) {
	saved := config.Global
	defer func() { config.Global = saved }()

	busy, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	defer busy.Close()

	config.Global.APIAddr = "127.0.0.1"
	config.Global.APIPort = busy.Addr().(*net.TCPAddr).Port
	config.Global.SetExplicitlySet(config.APIAddrField, true)

	if listener, err := bindAPIListener(); err == nil {
		listener.Close()
		t.Fatal("bindAPIListener() = nil error for a taken explicit port")
	}
}

func TestWaitIdle(t *testing.T) {
	pool, err := workerpool.New(&workerpool.Config{Workers: 1})
	if err != nil {
		t.Fatalf("workerpool.New() error = %v", err)
	}
	defer pool.Close(context.Background())

	release := make(chan struct{})
	submitter := withdrawal.SubmitterFunc(func(ctx context.Context, u withdrawal.Unit) (*withdrawal.Result, error) {
		<-release
		return &withdrawal.Result{Course: u.Course, Type: u.Type, Accepted: true}, nil
	})
	c, err := withdrawal.NewCoordinator(pool, submitter, nil)
	if err != nil {
		t.Fatalf("NewCoordinator() error = %v", err)
	}

	plan := course.Plan{{
		Type:    course.CourseType{ID: "t1", StartDate: "2024-01-01", EndDate: "2024-06-30"},
		Courses: []course.SelectedCourse{{Name: "a", PostID: "a", PostTc: "1", PostC: "1", PostTm: "1"}},
	}}
	if !c.Submit(plan, nil) {
		t.Fatal("Submit() = false on idle coordinator")
	}

	short, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := waitIdle(short, c); err == nil {
		t.Error("waitIdle() = nil while the batch is blocked")
	}

	close(release)
	long, cancel2 := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel2()
	if err := waitIdle(long, c); err != nil {
		t.Errorf("waitIdle() = %v after the batch finished", err)
	}
}
