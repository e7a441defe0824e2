package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// TodoView adds the derived overdue flag.
type TodoView struct {
	models.Todo
	Overdue bool `json:"overdue"`
}

func (h *Handler) todoView(t models.Todo) TodoView {
	return TodoView{Todo: t, Overdue: t.Overdue(models.DateOf(h.now()))}
}

func (h *Handler) ListTodos(c *gin.Context) {
	completed, err := queryBool(c, "completed")
	if err != nil {
		handleError(c, err)
		return
	}
	todos, err := h.store.ListTodos(c.Request.Context(), currentUser(c).ID, completed)
	if err != nil {
		handleError(c, err)
		return
	}
	views := make([]TodoView, 0, len(todos))
	for _, t := range todos {
		views = append(views, h.todoView(t))
	}
	respond(c, http.StatusOK, views)
}

func (h *Handler) CreateTodo(c *gin.Context) {
	var in models.TodoInput
	if !bindJSON(c, &in) {
		return
	}
	if err := in.ValidateCreate(); err != nil {
		handleError(c, err)
		return
	}
	todo := in.NewTodo(currentUser(c).ID)
	if err := h.store.CreateTodo(c.Request.Context(), &todo); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusCreated, h.todoView(todo))
}

func (h *Handler) GetTodo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	todo, err := h.store.GetTodo(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, h.todoView(*todo))
}

func (h *Handler) UpdateTodo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.TodoInput
	if !bindJSON(c, &in) {
		return
	}
	if err := in.ValidateUpdate(); err != nil {
		handleError(c, err)
		return
	}
	todo, err := h.store.GetTodo(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	in.Apply(todo)
	if err := h.store.UpdateTodo(c.Request.Context(), todo); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, h.todoView(*todo))
}

func (h *Handler) DeleteTodo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteTodo(c.Request.Context(), currentUser(c).ID, id); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, BatchDeleteResult{Requested: 1, Deleted: 1})
}

func (h *Handler) BatchDeleteTodos(c *gin.Context) {
	h.batchDelete(c, h.store.BatchDeleteTodos)
}
