package posts

import (
	"net/http"

	"evmarket.io/marketplace-api/app/domain/auth"
	"evmarket.io/marketplace-api/app/domain/post"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/interfaces/http/responses"
	"evmarket.io/marketplace-api/app/utils/logger"
	"github.com/gin-gonic/gin"
)

type PostsRoute struct {
	authService *auth.AuthService
	postService *post.PostService
}

func NewPostsRoute(authService *auth.AuthService, postService *post.PostService) *PostsRoute {
	return &PostsRoute{
		authService,
		postService,
	}
}

func (route *PostsRoute) RegisterRouter(router gin.IRouter) {
	postsRouter := router.Group("/posts")
	postsRouter.GET("", route.ListPosts)
	postsRouter.GET("/:post_id", route.GetPost)
	postsRouter.GET("/author/:author_id", route.ListAuthorPosts)

	authed := postsRouter.Group("", route.authService.Authenticated()...)
	authed.POST("", route.CreatePost)
	authed.PATCH("/:post_id", route.UpdatePost)
	authed.DELETE("/:post_id", route.DeletePost)
	authed.POST("/:post_id/like", route.ToggleLike)
}

type PostRequest struct {
	Title    *string        `json:"title"`
	Content  *string        `json:"content"`
	Category *post.Category `json:"category"`
	Tags     []string       `json:"tags"`
}

func (r PostRequest) toInput() post.PostInput {
	return post.PostInput{
		Title:    r.Title,
		Content:  r.Content,
		Category: r.Category,
		Tags:     r.Tags,
	}
}

// ListPosts godoc
// @Summary List forum posts
// @Description The result is the cached pagination envelope: items, total, page, limit and total_pages.
// @Tags Forum
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param search query string false "Matches title or content"
// @Param category query string false "Category filter"
// @Success 200 {object} responses.GeneralResponse[query.Page[post.Post]]
// @Router /v1/posts [get]
func (route *PostsRoute) ListPosts(reqCtx *gin.Context) {
	q, err := query.GetListQueryFromQuery(reqCtx, "category")
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "fd6e8a63-07d9-4919-9cdc-7500b94bec35",
			Error: err.Error(),
		})
		return
	}
	page, err := route.postService.List(reqCtx.Request.Context(), *q)
	if err != nil {
		responses.AbortWithError(reqCtx, "0fb0c616-195b-425c-9288-9b917f421195", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*query.Page[*post.Post]]{
		Status: responses.ResponseCodeOk,
		Result: page,
	})
}

// @Summary Get post
// @Tags Forum
// @Produce json
// @Param post_id path string true "Post public id"
// @Success 200 {object} responses.GeneralResponse[post.Post]
// @Router /v1/posts/{post_id} [get]
func (route *PostsRoute) GetPost(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	p, err := route.postService.FindByID(ctx, reqCtx.Param("post_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "8afdcdd5-9a59-43a7-9afd-6cf8a644dbba", err)
		return
	}
	if err := route.postService.RecordView(ctx, p.PublicID); err != nil {
		logger.GetLogger().WithField("error_code", "897d8bdd-e780-4887-915c-067b76c814a1").Warnf("failed to record post view: %v", err)
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*post.Post]{
		Status: responses.ResponseCodeOk,
		Result: p,
	})
}

// @Summary List an author's posts
// @Tags Forum
// @Produce json
// @Param author_id path string true "Author public id"
// @Success 200 {object} responses.GeneralResponse[[]post.Post]
// @Router /v1/posts/author/{author_id} [get]
func (route *PostsRoute) ListAuthorPosts(reqCtx *gin.Context) {
	items, err := route.postService.FindByAuthor(reqCtx.Request.Context(), reqCtx.Param("author_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "d5633ed1-cc0e-4318-b598-a3793eee9d56", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[[]*post.Post]{
		Status: responses.ResponseCodeOk,
		Result: items,
	})
}

// @Summary Create post
// @Tags Forum
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body PostRequest true "Post"
// @Success 201 {object} responses.GeneralResponse[post.Post]
// @Router /v1/posts [post]
func (route *PostsRoute) CreatePost(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	var request PostRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "c6177268-365c-4a03-9b42-45da9f515cd8",
			Error: err.Error(),
		})
		return
	}
	p, err := route.postService.Create(reqCtx.Request.Context(), me, request.toInput())
	if err != nil {
		responses.AbortWithError(reqCtx, "c7984ce5-91a5-4c9a-8f69-f7bf65ff136d", err)
		return
	}
	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[*post.Post]{
		Status: responses.ResponseCodeOk,
		Result: p,
	})
}

// @Summary Update post
// @Tags Forum
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param post_id path string true "Post public id"
// @Param request body PostRequest true "Fields to change"
// @Success 200 {object} responses.GeneralResponse[post.Post]
// @Router /v1/posts/{post_id} [patch]
func (route *PostsRoute) UpdatePost(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	var request PostRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "9d579bb3-8c6e-4acd-b0bd-39e532f09d7e",
			Error: err.Error(),
		})
		return
	}
	p, err := route.postService.Update(reqCtx.Request.Context(), me, reqCtx.Param("post_id"), request.toInput())
	if err != nil {
		responses.AbortWithError(reqCtx, "af454d6a-56ee-4181-9054-f7a074b5b62f", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*post.Post]{
		Status: responses.ResponseCodeOk,
		Result: p,
	})
}

// @Summary Delete post
// @Tags Forum
// @Security BearerAuth
// @Param post_id path string true "Post public id"
// @Success 204
// @Router /v1/posts/{post_id} [delete]
func (route *PostsRoute) DeletePost(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	if err := route.postService.Delete(reqCtx.Request.Context(), me, reqCtx.Param("post_id")); err != nil {
		responses.AbortWithError(reqCtx, "d9153f0e-50b6-423b-afb3-d4a0209a2395", err)
		return
	}
	reqCtx.Status(http.StatusNoContent)
}

// @Summary Like or unlike a post
// @Tags Forum
// @Security BearerAuth
// @Produce json
// @Param post_id path string true "Post public id"
// @Success 200 {object} responses.GeneralResponse[post.Post]
// @Router /v1/posts/{post_id}/like [post]
func (route *PostsRoute) ToggleLike(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	p, err := route.postService.ToggleLike(reqCtx.Request.Context(), me, reqCtx.Param("post_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "aff1e4b3-8f65-4156-b8ee-4fffdbb0176c", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*post.Post]{
		Status: responses.ResponseCodeOk,
		Result: p,
	})
}
