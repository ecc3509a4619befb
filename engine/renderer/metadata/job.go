package metadata

/** @brief A unit of work executed by the job system. */
type JobTask struct {
	/** @brief Used in log lines only. */
	Name string
	/** @brief Invoked on a worker. Required. */
	OnStart func() error
	/** @brief Invoked after OnStart returned nil. Optional. */
	OnComplete func()
	/** @brief Invoked after OnStart failed. Optional. */
	OnFailure func(err error)
	/** @brief Invoked after either outcome. Optional. */
	OnCompletionCallback func()
}
