// Package tasks provides the flat-file store for tasks and project plans.
//
// The store keeps everything in a single versioned JSON file and provides
// functionality for:
//   - Creating, completing, reassigning and removing tasks
//   - Filtering tasks by assignee, project and completion state
//   - Persisting project plans produced by the planner
//
// Writes go through a temp-file rename, so a crash mid-write never
// corrupts the store. The zero-dependency file format makes the store
// easy to inspect and back up; there is no external database.
//
// # Example Usage
//
//	store, err := tasks.NewStore(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	task, err := store.Add(tasks.TaskInput{
//	    Title:      "Draft launch announcement",
//	    AssignedTo: "marketing",
//	    Priority:   tasks.PriorityHigh,
//	    DueDate:    time.Now().AddDate(0, 0, 3),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Later, mark it done.
//	if _, err := store.Complete(task.ID); err != nil {
//	    log.Fatal(err)
//	}
package tasks
