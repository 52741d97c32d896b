// Package tasks defines the structure for tasks that are sent to Kafka.
package tasks

// DatasetProcessingTask represents the data structure for a dataset enrichment job.
type DatasetProcessingTask struct {
	DatasetID  uint   `json:"dataset_id"`
	DatasetMD5 string `json:"dataset_md5"`
	ObjectName string `json:"object_name"`
	FileName   string `json:"file_name"`
}
