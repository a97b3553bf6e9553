package model

// RecordEnvelope is the payload the upstream scoring pipeline publishes to Kafka.
type RecordEnvelope struct {
	ID     string         `json:"id"` // event id, used for logging only
	Record CustomerRecord `json:"record"`
}
