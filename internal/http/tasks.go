package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/tasks"
)

// TasksController handles task queue management endpoints.
type TasksController struct {
	queue TaskQueue
	log   *logging.Logger
}

func NewTasksController(queue TaskQueue, log *logging.Logger) *TasksController {
	return &TasksController{queue: queue, log: log}
}

// runnableTasks maps the names accepted by POST /api/tasks/:name to the
// task they enqueue.
var runnableTasks = map[string]func() backlite.Task{
	tasks.CleanupExportsQueue: func() backlite.Task { return tasks.CleanupExportsTask{} },
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	if tc.queue == nil {
		respondTasksUnavailable(c)
		return
	}
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, tc.log, err)
		return
	}

	name := tasks.StatusName(status)
	if name == "not_found" {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "task not found", Code: CodeNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task_id": taskID, "status": name})
}

// RunTask handles POST /api/tasks/:name and queues the task immediately.
func (tc *TasksController) RunTask(c *gin.Context) {
	if tc.queue == nil {
		respondTasksUnavailable(c)
		return
	}
	name := c.Param("name")
	build, ok := runnableTasks[name]
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown task: " + name, Code: CodeNotFound})
		return
	}

	taskID, err := tc.queue.Enqueue(build())
	if err != nil {
		respondInternalError(c, tc.log, err)
		return
	}
	tc.log.Info("Task queued", "task", name, "task_id", taskID)
	respondAccepted(c, "task queued", gin.H{"task_id": taskID, "type": name})
}

func respondTasksUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, ErrorResponse{
		Error: "task queue is not enabled",
		Code:  "tasks_disabled",
	})
}
