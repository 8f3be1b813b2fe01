package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	NotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plantcare_notes_total",
			Help: "Note lifecycle counter by operation",
		},
		[]string{"op"}, // created|updated|deleted
	)

	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plantcare_uploads_total",
			Help: "Upload outcomes by result",
		},
		[]string{"result"}, // saved|skipped|resample_failed
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		NotesTotal,
		UploadsTotal,
	)
}
