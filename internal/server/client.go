package server

import (
	"context"

	"google.golang.org/grpc"
)

// CandidateClient calls CandidateService using the json codec.
type CandidateClient struct {
	cc grpc.ClientConnInterface
}

func NewCandidateClient(cc grpc.ClientConnInterface) *CandidateClient {
	return &CandidateClient{cc: cc}
}

func (c *CandidateClient) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *CandidateClient) UploadResume(ctx context.Context, in *UploadResumeRequest, opts ...grpc.CallOption) (*UploadResumeResponse, error) {
	out := new(UploadResumeResponse)
	if err := c.invoke(ctx, CandidateService_UploadResume_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CandidateClient) ListCandidates(ctx context.Context, in *ListCandidatesRequest, opts ...grpc.CallOption) (*ListCandidatesResponse, error) {
	out := new(ListCandidatesResponse)
	if err := c.invoke(ctx, CandidateService_ListCandidates_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CandidateClient) GetCandidate(ctx context.Context, in *GetCandidateRequest, opts ...grpc.CallOption) (*GetCandidateResponse, error) {
	out := new(GetCandidateResponse)
	if err := c.invoke(ctx, CandidateService_GetCandidate_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CandidateClient) ExportCandidates(ctx context.Context, in *ExportCandidatesRequest, opts ...grpc.CallOption) (*ExportCandidatesResponse, error) {
	out := new(ExportCandidatesResponse)
	if err := c.invoke(ctx, CandidateService_ExportCandidates_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
