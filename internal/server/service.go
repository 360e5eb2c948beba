package server

import (
	"context"

	"google.golang.org/grpc"
)

const candidateServiceName = "resumeparser.v1.CandidateService"

const (
	CandidateService_UploadResume_FullMethodName     = "/" + candidateServiceName + "/UploadResume"
	CandidateService_ListCandidates_FullMethodName   = "/" + candidateServiceName + "/ListCandidates"
	CandidateService_GetCandidate_FullMethodName     = "/" + candidateServiceName + "/GetCandidate"
	CandidateService_ExportCandidates_FullMethodName = "/" + candidateServiceName + "/ExportCandidates"
)

// CandidateService_ServiceDesc is written by hand; messages travel through the json codec.
var CandidateService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: candidateServiceName,
	HandlerType: (*CandidateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "UploadResume", Handler: _CandidateService_UploadResume_Handler},
		{MethodName: "ListCandidates", Handler: _CandidateService_ListCandidates_Handler},
		{MethodName: "GetCandidate", Handler: _CandidateService_GetCandidate_Handler},
		{MethodName: "ExportCandidates", Handler: _CandidateService_ExportCandidates_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "resumeparser/v1/candidates.json",
}

func RegisterCandidateServiceServer(s grpc.ServiceRegistrar, srv CandidateServiceServer) {
	s.RegisterService(&CandidateService_ServiceDesc, srv)
}

func _CandidateService_UploadResume_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UploadResumeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CandidateServiceServer).UploadResume(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CandidateService_UploadResume_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CandidateServiceServer).UploadResume(ctx, req.(*UploadResumeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CandidateService_ListCandidates_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListCandidatesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CandidateServiceServer).ListCandidates(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CandidateService_ListCandidates_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CandidateServiceServer).ListCandidates(ctx, req.(*ListCandidatesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CandidateService_GetCandidate_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetCandidateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CandidateServiceServer).GetCandidate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CandidateService_GetCandidate_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CandidateServiceServer).GetCandidate(ctx, req.(*GetCandidateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CandidateService_ExportCandidates_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ExportCandidatesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CandidateServiceServer).ExportCandidates(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CandidateService_ExportCandidates_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CandidateServiceServer).ExportCandidates(ctx, req.(*ExportCandidatesRequest))
	}
	return interceptor(ctx, in, info, handler)
}
