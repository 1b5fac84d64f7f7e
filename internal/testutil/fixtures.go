package testutil

// SamplePurchaseOrder is a complete three-line-item purchase order document
// with matching trailer totals: 3 declared line items and a hash total of
// 350 (100 + 50 + 200). Line totals are 2550.00, 2362.50, and 2400.00 for an
// order total of 7312.50. Tests that need a broken document mutate one
// segment with strings.Replace rather than carrying a fixture per case.
const SamplePurchaseOrder = `ISA*00*          *00*          *ZZ*4405197800     *ZZ*999999999      *240115*1200*U*00401*000000101*0*P*:~
GS*PO*4405197800*999999999*20240115*1200*101*X*004010~
ST*850*0001~
BEG*00*NE*PO-2024-0001**20240115~
REF*DP*054~
REF*CO*CUST-88421~
N1*BY*Meridian Retail Group*92*BUY-001~
N1*ST*Meridian Distribution Center*92*DC-EAST-42~
N3*450 Logistics Parkway~
N4*Columbus*OH*43004~
N1*VN*Global Supply Co*92*VEND-7731~
PO1*1*100*EA*25.50**VN*SKU-001122~
PID*F****Industrial Widget Type A~
PO1*2*50*EA*47.25**VN*SKU-003344~
PID*F****Heavy Duty Fastener Kit~
PO1*3*200*EA*12.00**VN*SKU-005566~
PID*F****Bulk Packing Material~
CTT*3*350~
SE*17*0001~
GE*1*101~
IEA*1*000000101~`

// SamplePurchaseOrderNoVendor is the same order shape without the vendor
// party loop, so transformation fails on the missing VN role.
const SamplePurchaseOrderNoVendor = `ISA*00*          *00*          *ZZ*4405197800     *ZZ*999999999      *240115*1200*U*00401*000000101*0*P*:~
GS*PO*4405197800*999999999*20240115*1200*101*X*004010~
ST*850*0001~
BEG*00*NE*PO-2024-0002**20240115~
REF*DP*054~
N1*BY*Meridian Retail Group*92*BUY-001~
N1*ST*Meridian Distribution Center*92*DC-EAST-42~
PO1*1*100*EA*25.50**VN*SKU-001122~
PO1*2*50*EA*47.25**VN*SKU-003344~
CTT*2*150~
SE*9*0001~
GE*1*101~
IEA*1*000000101~`
