//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"

	"voice-assistant/internal/application"
	"voice-assistant/internal/domain"
)

const framesPerBuffer = 512

// Microphone opens a fresh portaudio input stream for every take.
type Microphone struct {
	deviceName string
	logger     *slog.Logger
}

func NewMicrophone(deviceName string, logger *slog.Logger) *Microphone {
	return &Microphone{
		deviceName: deviceName,
		logger:     logger,
	}
}

func (m *Microphone) Open(_ context.Context, format domain.AudioFormat, maxFrames int) (application.CaptureSession, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: initializing portaudio: %v", domain.ErrCaptureUnavailable, err)
	}

	device, err := m.findDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: %v", domain.ErrCaptureUnavailable, err)
	}

	buffer := make([]float32, framesPerBuffer*format.Channels)
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: format.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(format.SampleRate),
		FramesPerBuffer: framesPerBuffer,
	}, buffer)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: opening stream: %v", domain.ErrCaptureUnavailable, err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: starting stream: %v", domain.ErrCaptureUnavailable, err)
	}

	s := &micSession{
		stream: stream,
		format: format,
		sink:   newSampleSink(maxFrames * format.Channels),
		done:   make(chan struct{}),
		logger: m.logger,
	}
	go s.readLoop(buffer)

	m.logger.Info("microphone opened", "device", device.Name, "sampleRate", format.SampleRate, "channels", format.Channels)
	return s, nil
}

func (m *Microphone) findDevice() (*portaudio.DeviceInfo, error) {
	if m.deviceName == "" {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("default input device: %w", err)
		}
		return device, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	for _, d := range devices {
		if d.Name == m.deviceName && d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("input device not found: %s", m.deviceName)
}

type micSession struct {
	stream  *portaudio.Stream
	format  domain.AudioFormat
	sink    *sampleSink
	stopped atomic.Bool
	done    chan struct{}
	once    sync.Once
	logger  *slog.Logger
}

func (s *micSession) readLoop(buffer []float32) {
	defer close(s.done)
	for !s.stopped.Load() {
		if err := s.stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				continue
			}
			s.logger.Error("reading from microphone", "error", err)
			return
		}
		if s.sink.write(buffer) {
			s.logger.Debug("capture buffer full")
			return
		}
	}
}

func (s *micSession) Ready() <-chan struct{} {
	return s.sink.Ready()
}

func (s *micSession) Close() (domain.SampleBuffer, error) {
	var err error
	s.once.Do(func() {
		s.stopped.Store(true)
		<-s.done
		if stopErr := s.stream.Stop(); stopErr != nil {
			err = fmt.Errorf("stopping stream: %w", stopErr)
		}
		s.stream.Close()
		portaudio.Terminate()
	})
	return s.sink.buffer(s.format.Channels, s.format.SampleRate), err
}

// Speaker plays a decoded take on the default output device.
type Speaker struct {
	logger *slog.Logger
}

func NewSpeaker(logger *slog.Logger) *Speaker {
	return &Speaker{logger: logger}
}

func (p *Speaker) Play(ctx context.Context, buf domain.SampleBuffer) error {
	if !buf.HasFrames() {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	out := make([]float32, framesPerBuffer*buf.Channels)
	stream, err := portaudio.OpenDefaultStream(0, buf.Channels, float64(buf.SampleRate), framesPerBuffer, out)
	if err != nil {
		return fmt.Errorf("opening output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("starting output stream: %w", err)
	}
	defer stream.Stop()

	for pos := 0; pos < len(buf.Samples); pos += len(out) {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := copy(out, buf.Samples[pos:])
		clear(out[n:])
		if err := stream.Write(); err != nil {
			return fmt.Errorf("writing to output stream: %w", err)
		}
	}

	p.logger.Debug("playback finished", "duration", buf.Duration())
	return nil
}
