package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/albert-client/internal/constants"
	"github.com/fivetwenty-io/albert-client/internal/http"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// TasksClient implements the albert.TasksClient interface.
type TasksClient struct {
	resource resourceClient[albert.Task]
	pageSize int
}

// NewTasksClient creates a new TasksClient.
func NewTasksClient(httpClient *http.Client, pageSize int) *TasksClient {
	return &TasksClient{
		resource: newResourceClient[albert.Task](httpClient, constants.PathTasks, albert.PrefixTask, "task"),
		pageSize: pageSize,
	}
}

var taskPatchFields = []albert.PatchField[albert.Task]{
	albert.Attr("name", func(t *albert.Task) any { return t.Name }),
	albert.Attr("priority", func(t *albert.Task) any { return string(t.Priority) }),
	albert.Attr("dueDate", func(t *albert.Task) any { return t.DueDate }),
	albert.Attr("state", func(t *albert.Task) any { return t.State }),
	albert.RefAttr("Location", func(t *albert.Task) albert.Ref[*albert.Location] { return t.Location }),
	albert.RefAttr("AssignedTo", func(t *albert.Task) albert.Ref[*albert.User] { return t.AssignedTo }),
	albert.RefSetAttr("tagId", func(t *albert.Task) []albert.Ref[*albert.Tag] { return t.Tags }),
}

// Create creates a task. The API accepts a batch; a batch of one is sent.
func (c *TasksClient) Create(ctx context.Context, task *albert.Task) (*albert.Task, error) {
	if task == nil {
		return nil, albert.ErrNilEntity
	}

	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	query := url.Values{constants.ParamCategory: []string{string(task.Category)}}
	if task.ProjectID != "" {
		query.Set("parentId", task.ProjectID)
	}

	resp, err := c.resource.httpClient.Do(ctx, &http.Request{
		Method: "POST",
		Path:   constants.PathTasksMulti,
		Query:  query,
		Body:   []*albert.Task{task},
	})
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	created, err := decode[[]*albert.Task](resp.Body, "task")
	if err != nil {
		return nil, err
	}

	if len(*created) == 0 {
		return nil, fmt.Errorf("creating task: %w", albert.ErrNoMoreItems)
	}

	return (*created)[0], nil
}

// Get retrieves a task with its full details. The TAS prefix is optional.
func (c *TasksClient) Get(ctx context.Context, id string) (*albert.Task, error) {
	id = c.resource.normalizeID(id)

	return c.resource.getPath(ctx, constants.PathTasksMulti+"/"+id, id)
}

// Update sends the difference between the stored task and task.
func (c *TasksClient) Update(ctx context.Context, task *albert.Task) (*albert.Task, error) {
	if task == nil {
		return nil, albert.ErrNilEntity
	}

	if task.ID == "" {
		return nil, &albert.InvalidReferenceError{Kind: "task", Err: albert.ErrMissingID}
	}

	existing, err := c.Get(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	payload, err := albert.GeneratePatch(existing, task, taskPatchFields)
	if err != nil {
		return nil, fmt.Errorf("building task patch: %w", err)
	}

	if err := c.resource.patch(ctx, task.ID, payload); err != nil {
		return nil, err
	}

	return c.Get(ctx, task.ID)
}

// Delete deletes a task.
func (c *TasksClient) Delete(ctx context.Context, id string) error {
	return c.resource.delete(ctx, id)
}

// Search returns partial task records.
func (c *TasksClient) Search(ctx context.Context, params *albert.QueryParams) (*albert.PaginationIterator[albert.TaskSearchItem], error) {
	return newIterator[albert.TaskSearchItem](ctx, c.resource.httpClient, listing{
		path:     constants.PathTaskSearch,
		mode:     albert.PaginationModeOffset,
		pageSize: c.pageSize,
		defaults: []albert.Filter{albert.F(constants.ParamOrder, albert.OrderDescending)},
	}, params)
}

// GetAll searches and then fetches every full task.
func (c *TasksClient) GetAll(ctx context.Context, params *albert.QueryParams) (*albert.HydratingIterator[albert.TaskSearchItem, *albert.Task], error) {
	search, err := c.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return albert.NewHydratingIterator[albert.TaskSearchItem, *albert.Task](ctx, search,
		func(item albert.TaskSearchItem) string { return item.ID }, c), nil
}
