package handler

import (
	"strconv"
	"strings"

	"filetag-go/internal/dto"
	"filetag-go/internal/models"
	"filetag-go/internal/service"
)

func toUserInfo(user *models.User) dto.UserInfo {
	return dto.UserInfo{
		ID:            user.ID,
		WalletAddress: user.WalletAddress,
		RewardPoints:  user.RewardPoints,
		CreatedAt:     user.CreatedAt.Format(dto.TimeLayout),
	}
}

func toTagResponses(tags []models.Tag) []dto.TagResponse {
	result := make([]dto.TagResponse, 0, len(tags))
	for _, tag := range tags {
		result = append(result, dto.TagResponse{ID: tag.ID, Tag: tag.Tag})
	}
	return result
}

func toTallyResponse(tally service.Tally) dto.TallyResponse {
	return dto.TallyResponse{
		FileID:    tally.FileID,
		Upvotes:   tally.Upvotes,
		Downvotes: tally.Downvotes,
		Net:       tally.Net,
	}
}

func toFileResponse(view *service.FileView, withComments bool) dto.FileResponse {
	file := view.File
	resp := dto.FileResponse{
		ID:            file.ID,
		FilecoinHash:  file.FilecoinHash,
		FileName:      file.FileName,
		FileType:      file.FileType,
		FileSize:      file.FileSize,
		ThumbnailURL:  file.ThumbnailURL,
		Description:   file.Description,
		Network:       file.Network,
		UploadDate:    file.UploadDate.Format(dto.TimeLayout),
		UserID:        file.UserID,
		WalletAddress: file.User.WalletAddress,
		Tags:          toTagResponses(view.Tags),
		Upvotes:       view.Tally.Upvotes,
		Downvotes:     view.Tally.Downvotes,
		NetVotes:      view.Tally.Net,
	}
	if withComments {
		count := view.CommentCount
		resp.CommentCount = &count
	}
	return resp
}

func toCommentResponse(comment *models.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:            comment.ID,
		FileID:        comment.FileID,
		UserID:        comment.UserID,
		WalletAddress: comment.User.WalletAddress,
		Comment:       comment.Comment,
		CreatedAt:     comment.CreatedAt.Format(dto.TimeLayout),
	}
}

func toReportResponse(report *models.Report) dto.ReportResponse {
	return dto.ReportResponse{
		ID:           report.ID,
		FileID:       report.FileID,
		UserID:       report.UserID,
		ReportReason: report.ReportReason,
		CreatedAt:    report.CreatedAt.Format(dto.TimeLayout),
	}
}

func toPointEventResponse(event *models.PointEvent) dto.PointEventResponse {
	return dto.PointEventResponse{
		ID:        event.ID,
		Delta:     event.Delta,
		Reason:    event.Reason,
		FileID:    event.FileID,
		ActorID:   event.ActorID,
		CreatedAt: event.CreatedAt.Format(dto.TimeLayout),
	}
}

// toTagRefs 将请求中的标签引用解析为服务层引用
func toTagRefs(reqs []dto.TagRefRequest) ([]service.TagRef, error) {
	refs := make([]service.TagRef, 0, len(reqs))
	for _, req := range reqs {
		ref, err := service.ParseTagRef(string(req.ID), req.Tag)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// parseIDList 解析逗号分隔的ID列表，忽略空项
func parseIDList(raw string) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
